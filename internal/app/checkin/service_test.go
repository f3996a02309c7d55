package checkin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcilla-smith/wellcheck-mvp/internal/adapters/llm"
	"github.com/marcilla-smith/wellcheck-mvp/internal/app/checkin"
	"github.com/marcilla-smith/wellcheck-mvp/internal/domain"
)

// stubGeo returns a fixed location without any network traffic.
type stubGeo struct {
	loc   domain.Location
	calls int
}

func (g *stubGeo) Resolve(_ context.Context, clientAddr string) domain.Location {
	g.calls++
	loc := g.loc
	loc.SourceAddress = clientAddr
	return loc
}

func detroit() domain.Location {
	return domain.Location{
		Country:  "United States",
		Region:   "Michigan",
		City:     "Detroit",
		Detected: true,
	}
}

func TestContinueConversationAtLimitMakesNoLLMCall(t *testing.T) {
	mock := llm.NewMockLLM()
	svc := checkin.NewService(mock, &stubGeo{}, 0)

	out, err := svc.ContinueConversation(context.Background(), checkin.ContinueInput{
		InitialResponse:  "Earlier response",
		FollowUpQuestion: "What should I do next?",
		Checkin:          domain.Checkin{Ratings: domain.Ratings{domain.DimensionEmotional: 2}},
		Turn:             checkin.MaxTurns,
	})
	require.NoError(t, err)

	assert.True(t, out.LimitReached)
	assert.Equal(t, checkin.MaxTurns, out.NewTurn)
	assert.Equal(t, 0, mock.CallCount(), "limit-reached must not reach the provider")
}

func TestContinueConversationIncrementsTurn(t *testing.T) {
	mock := llm.NewMockLLM()
	mock.Replies = []string{"Here's one idea to try."}
	svc := checkin.NewService(mock, &stubGeo{}, 0)

	out, err := svc.ContinueConversation(context.Background(), checkin.ContinueInput{
		InitialResponse:  "Earlier response",
		FollowUpQuestion: "What should I do next?",
		Checkin:          domain.Checkin{Ratings: domain.Ratings{domain.DimensionEmotional: 2}},
		Turn:             1,
	})
	require.NoError(t, err)

	assert.False(t, out.LimitReached)
	assert.Equal(t, 2, out.NewTurn)
	assert.Equal(t, "Here's one idea to try.", out.Text)
	assert.Equal(t, 1, mock.CallCount())
}

func TestContinueConversationProviderFailureIsGeneric(t *testing.T) {
	mock := llm.NewMockLLM()
	mock.Err = errors.New("upstream exploded: secret detail")
	svc := checkin.NewService(mock, &stubGeo{}, 0)

	_, err := svc.ContinueConversation(context.Background(), checkin.ContinueInput{
		FollowUpQuestion: "And now?",
		Checkin:          domain.Checkin{Ratings: domain.Ratings{domain.DimensionEmotional: 2}},
		Turn:             0,
	})
	require.ErrorIs(t, err, checkin.ErrResponseFailed)
	assert.NotContains(t, err.Error(), "secret detail")
}

func TestSearchResourcesFallsBackOnProviderFailure(t *testing.T) {
	mock := llm.NewMockLLM()
	mock.Err = errors.New("boom")
	geo := &stubGeo{loc: detroit()}
	svc := checkin.NewService(mock, geo, 0)

	resources := svc.SearchResources(context.Background(), checkin.ResourceSearchInput{
		Concerns:   []domain.Dimension{domain.DimensionFinancial},
		ClientAddr: "8.8.8.8",
	})

	require.NotEmpty(t, resources)
	assert.LessOrEqual(t, len(resources), domain.MaxResources)
	assert.Contains(t, resources[0].Description, "Detroit, Michigan")
}

func TestSearchResourcesUsesSuppliedLocationWithoutResolving(t *testing.T) {
	mock := llm.NewMockLLM()
	mock.Replies = []string{`[{"title":"Food Bank","description":"Free groceries.","url":"https://example.org"}]`}
	geo := &stubGeo{loc: detroit()}
	svc := checkin.NewService(mock, geo, 0)

	loc := detroit()
	resources := svc.SearchResources(context.Background(), checkin.ResourceSearchInput{
		Concerns: []domain.Dimension{domain.DimensionFinancial},
		Location: &loc,
	})

	require.Len(t, resources, 1)
	assert.Equal(t, "Food Bank", resources[0].Title)
	assert.Equal(t, 0, geo.calls, "a supplied location must skip resolution")
}

func TestSearchResourcesNeverExceedsMax(t *testing.T) {
	mock := llm.NewMockLLM()
	mock.Replies = []string{`[
		{"title":"A","description":"a","url":"https://a"},
		{"title":"B","description":"b","url":"https://b"},
		{"title":"C","description":"c","url":"https://c"},
		{"title":"D","description":"d","url":"https://d"},
		{"title":"E","description":"e","url":"https://e"},
		{"title":"F","description":"f","url":"https://f"}
	]`}
	svc := checkin.NewService(mock, &stubGeo{loc: detroit()}, 0)

	resources := svc.SearchResources(context.Background(), checkin.ResourceSearchInput{
		ClientAddr: "8.8.8.8",
	})

	assert.Len(t, resources, domain.MaxResources)
	assert.Equal(t, "A", resources[0].Title)
	assert.Equal(t, "D", resources[3].Title)
}

// First-time user submits {financial:1, emotional:2, physical:4} with
// "lost my job this week": the preliminary prompt forces no-assumptions
// mode, the main prompt separates concerns from strengths, and resource
// search leads with the job-oriented query.
func TestFirstCheckinEndToEnd(t *testing.T) {
	ctx := context.Background()
	ratings := domain.Ratings{
		domain.DimensionFinancial: 1,
		domain.DimensionEmotional: 2,
		domain.DimensionPhysical:  4,
	}
	narrative := "lost my job this week"

	mock := llm.NewMockLLM()
	mock.Replies = []string{
		"That sounds really hard.",
		"Thank you for sharing what happened.",
		`[{"title":"Job Center","description":"Career help.","url":"https://jobs.example.org"}]`,
	}
	svc := checkin.NewService(mock, &stubGeo{loc: detroit()}, 0)

	prelim, err := svc.PreliminaryInsight(ctx, checkin.PreliminaryInput{
		Ratings: ratings,
		History: nil,
	})
	require.NoError(t, err)
	require.NotEmpty(t, prelim)

	prelimPrompt := mock.Prompts[0]
	assert.Contains(t, prelimPrompt, "very first check-in")
	assert.Contains(t, prelimPrompt, "Do not assume anything")
	for _, d := range []string{"financial", "emotional", "physical"} {
		assert.Contains(t, prelimPrompt, d)
	}

	_, err = svc.WellnessResponse(ctx, checkin.ResponseInput{
		Ratings:         ratings,
		Context:         narrative,
		History:         nil,
		PreliminaryText: prelim,
	})
	require.NoError(t, err)

	mainPrompt := mock.Prompts[1]
	assert.Contains(t, mainPrompt, "Areas of concern (rated 2 or below): financial, emotional")
	assert.Contains(t, mainPrompt, "Areas of strength (rated 4 or above): physical")
	assert.Contains(t, mainPrompt, narrative)
	assert.Contains(t, mainPrompt, prelim)

	resources := svc.SearchResources(ctx, checkin.ResourceSearchInput{
		Concerns:   []domain.Dimension{domain.DimensionFinancial, domain.DimensionEmotional},
		ClientAddr: "8.8.8.8",
		Context:    narrative,
	})
	require.NotEmpty(t, resources)

	resourcePrompt := mock.Prompts[2]
	assert.Contains(t, resourcePrompt, "job search unemployment assistance in Detroit, Michigan")
	assert.NotContains(t, resourcePrompt, "financial assistance programs",
		"keyword path must take precedence over category fallback")
}
