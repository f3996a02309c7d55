package domain

import "context"

// LLMClient defines how the core application talks to the chat-completion
// provider: one user-role prompt in, generated text out. maxOutputTokens
// bounds the reply length and varies by request kind.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, maxOutputTokens int32) (string, error)
}

// Geolocator resolves a raw client network address (possibly a forwarding
// chain) to an approximate location. Implementations never fail: an
// unresolvable address yields Detected=false.
type Geolocator interface {
	Resolve(ctx context.Context, clientAddr string) Location
}
