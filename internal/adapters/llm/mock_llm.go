package llm

import (
	"context"
	"sync"
)

// MockLLM is a scriptable test double for domain.LLMClient. It records
// every prompt and counts calls so tests can assert which outbound
// requests were (or were not) made.
type MockLLM struct {
	mu      sync.Mutex
	Replies []string // consumed in order; last entry repeats
	Err     error    // returned by every call when set

	Calls   int
	Prompts []string
}

func NewMockLLM() *MockLLM {
	return &MockLLM{
		Replies: []string{"I hear you. Thanks for checking in today."},
	}
}

func (m *MockLLM) Generate(_ context.Context, prompt string, _ int32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}

	idx := m.Calls - 1
	if idx >= len(m.Replies) {
		idx = len(m.Replies) - 1
	}
	return m.Replies[idx], nil
}

// CallCount returns how many times Generate was invoked.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// LastPrompt returns the most recent prompt, or "" when none were made.
func (m *MockLLM) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
