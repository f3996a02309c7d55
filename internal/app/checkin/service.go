package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/marcilla-smith/wellcheck-mvp/internal/adapters/llm"
	"github.com/marcilla-smith/wellcheck-mvp/internal/domain"
	"github.com/marcilla-smith/wellcheck-mvp/internal/observability"
)

// MaxTurns bounds how many continuation exchanges one check-in may have.
// The caller persists the counter; this service is the sole authority that
// increments it and rejects requests at the limit.
const MaxTurns = 2

// Output bounds per request kind. The preliminary acknowledgment is kept
// deliberately short; the other kinds may run longer.
const (
	preliminaryMaxTokens  int32 = 1024
	mainMaxTokens         int32 = 4096
	continuationMaxTokens int32 = 4096
	resourceMaxTokens     int32 = 2048
)

// ErrResponseFailed is the only error surfaced to callers when the LLM
// provider fails; provider detail stays in the logs.
var ErrResponseFailed = errors.New("failed to get response")

// Service orchestrates the check-in pipeline: preliminary insight, main
// response, resource search, and bounded continuation turns. It is
// stateless across requests; history and turn counters are caller-supplied.
type Service struct {
	llm        domain.LLMClient
	geo        domain.Geolocator
	llmTimeout time.Duration
}

func NewService(llmClient domain.LLMClient, geo domain.Geolocator, llmTimeout time.Duration) *Service {
	if llmTimeout <= 0 {
		llmTimeout = 12 * time.Second
	}
	return &Service{
		llm:        llmClient,
		geo:        geo,
		llmTimeout: llmTimeout,
	}
}

// DetectLocation resolves a raw client address to an approximate location.
// It never fails; unresolvable addresses come back with Detected=false.
func (s *Service) DetectLocation(ctx context.Context, clientAddr string) domain.Location {
	return s.geo.Resolve(ctx, clientAddr)
}

type PreliminaryInput struct {
	Ratings domain.Ratings
	History domain.History
}

// PreliminaryInsight returns the short acknowledgment generated right
// after a check-in is submitted.
func (s *Service) PreliminaryInsight(ctx context.Context, in PreliminaryInput) (string, error) {
	log := observability.LoggerFromContext(ctx).With(
		"first_ever", in.History.FirstEver(),
		"prior_count", in.History.PriorCount(),
	)
	log.Info("preliminary insight requested")

	prompt := llm.BuildPreliminaryPrompt(in.Ratings, in.History)
	return s.generate(ctx, prompt, preliminaryMaxTokens)
}

type ResponseInput struct {
	Ratings         domain.Ratings
	Context         string
	History         domain.History
	PreliminaryText string
}

// WellnessResponse returns the main deep response, built on top of the
// caller-supplied preliminary acknowledgment.
func (s *Service) WellnessResponse(ctx context.Context, in ResponseInput) (string, error) {
	log := observability.LoggerFromContext(ctx).With(
		"concerns", len(in.Ratings.Concerns()),
		"has_context", in.Context != "",
	)
	log.Info("wellness response requested")

	prompt := llm.BuildMainPrompt(
		in.Ratings,
		in.Context,
		in.PreliminaryText,
		in.History.FirstEver(),
		in.History.FirstToday(time.Now()),
	)
	return s.generate(ctx, prompt, mainMaxTokens)
}

type ContinueInput struct {
	InitialResponse  string
	FollowUpQuestion string
	Checkin          domain.Checkin
	Turn             int
}

type ContinueOutput struct {
	Text         string
	NewTurn      int
	LimitReached bool
}

// ContinueConversation handles one bounded follow-up exchange. At or above
// the turn limit it returns LimitReached without making any outbound call;
// this is a result value, not an error.
func (s *Service) ContinueConversation(ctx context.Context, in ContinueInput) (*ContinueOutput, error) {
	log := observability.LoggerFromContext(ctx).With("turn", in.Turn)

	if in.Turn >= MaxTurns {
		log.Info("continuation turn limit reached")
		return &ContinueOutput{LimitReached: true, NewTurn: in.Turn}, nil
	}

	log.Info("continuation requested")

	prompt := llm.BuildContinuationPrompt(in.InitialResponse, in.FollowUpQuestion, in.Checkin, in.Turn)
	text, err := s.generate(ctx, prompt, continuationMaxTokens)
	if err != nil {
		return nil, err
	}

	return &ContinueOutput{
		Text:    text,
		NewTurn: in.Turn + 1,
	}, nil
}

type ResourceSearchInput struct {
	Concerns []domain.Dimension
	// Location, when non-nil, skips address resolution entirely.
	Location   *domain.Location
	ClientAddr string
	Context    string
}

// SearchResources synthesizes search intents from the check-in, asks the
// model for matching local resources, and parses the reply. Every failure
// along the way degrades to the static fallback list; a generic resource
// list is considered more useful than an error here.
func (s *Service) SearchResources(ctx context.Context, in ResourceSearchInput) []domain.Resource {
	log := observability.LoggerFromContext(ctx).With("concerns", len(in.Concerns))

	var loc domain.Location
	if in.Location != nil {
		loc = *in.Location
	} else {
		loc = s.geo.Resolve(ctx, in.ClientAddr)
	}

	concerns := OrderConcerns(in.Concerns)
	queries := SynthesizeQueries(concerns, in.Context, loc)
	log.Info("resource search", "queries", len(queries), "detected", loc.Detected)

	prompt := llm.BuildResourcePrompt(queries, in.Context, concerns, loc)
	raw, err := s.generate(ctx, prompt, resourceMaxTokens)
	if err != nil {
		log.Warn("resource search falling back to static list")
		return FallbackResources(loc)
	}

	return ParseResources(raw, loc)
}

// generate runs one bounded outbound LLM call. Provider errors are logged
// and collapsed into ErrResponseFailed so no upstream detail leaks.
func (s *Service) generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	text, err := s.llm.Generate(callCtx, prompt, maxTokens)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("llm call failed", "error", err)
		return "", ErrResponseFailed
	}
	return text, nil
}
