package llm

import (
	"fmt"
	"strings"

	"github.com/marcilla-smith/wellcheck-mvp/internal/domain"
)

const basePersona = `You are a warm, supportive wellness companion for a daily check-in app.

Your role:
- You respond with empathy and without judgment.
- You help the user notice what is going well and what needs care.
- You are NOT a therapist, doctor, or emergency service and you do NOT give medical or psychiatric diagnoses.

General style guidelines:
- Use simple, everyday language, not clinical jargon.
- Be concise and specific to what the user actually shared.
- If the user mentions self-harm or harming others, encourage them to contact local emergency services or a trusted person immediately.`

const noAssumptionsInstruction = `This is the user's very first check-in. You know NOTHING about their life circumstances.
Do not assume anything about their job, relationships, housing, health, or history.
Acknowledge only the ratings themselves. Make no causal guesses about why a rating is low or high.`

const returningUserInstruction = `This user has checked in before. You may gently reference that they are building a check-in habit,
but do not invent specifics about their past entries.`

// BuildPreliminaryPrompt produces the short-acknowledgment request sent
// immediately after a check-in is submitted, before the main response.
func BuildPreliminaryPrompt(ratings domain.Ratings, history domain.History) string {
	var b strings.Builder
	b.WriteString(basePersona)
	b.WriteString("\n\nTask: write a brief preliminary acknowledgment of today's check-in.\n")
	b.WriteString("Acknowledge the user's concerns and strengths. Do NOT ask any questions yet.\n\n")

	if history.FirstEver() {
		b.WriteString(noAssumptionsInstruction)
	} else {
		b.WriteString(returningUserInstruction)
		fmt.Fprintf(&b, "\nPrior check-ins on record: %d.", history.PriorCount())
	}
	b.WriteString("\n\n")

	writeRatingsSection(&b, ratings)
	return b.String()
}

// BuildMainPrompt produces the deep-response request. preliminaryText is
// the acknowledgment already shown to the user; the model must not repeat
// it or re-introduce itself.
func BuildMainPrompt(ratings domain.Ratings, contextText, preliminaryText string, firstEver, firstToday bool) string {
	var b strings.Builder
	b.WriteString(basePersona)
	b.WriteString("\n\nTask: write the main supportive response to today's check-in.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Do NOT introduce yourself; the conversation is already underway.\n")
	b.WriteString("- Do NOT repeat the preliminary acknowledgment below; build on it.\n")
	b.WriteString("- Ground every claim about the user's situation strictly in what they explicitly wrote.\n")
	b.WriteString("- NEVER infer unstated circumstances (work, relationships, housing) from the ratings alone.\n")

	if firstEver {
		b.WriteString("\n")
		b.WriteString(noAssumptionsInstruction)
	}
	if !firstToday {
		b.WriteString("\nThe user has already checked in earlier today; treat this as a same-day follow-up, not a fresh start.\n")
	}
	b.WriteString("\n")

	writeRatingsSection(&b, ratings)

	if contextText != "" {
		b.WriteString("\nWhat the user wrote about their day:\n")
		b.WriteString(contextText)
		b.WriteString("\n")
	} else {
		b.WriteString("\nThe user did not add any written context. Do not speculate about why.\n")
	}

	b.WriteString("\nPreliminary acknowledgment already shown to the user:\n")
	b.WriteString(preliminaryText)
	b.WriteString("\n")
	return b.String()
}

// BuildContinuationPrompt produces the follow-up request for a bounded
// continuation exchange tied to one check-in.
func BuildContinuationPrompt(initialResponse, followUpQuestion string, checkin domain.Checkin, turn int) string {
	var b strings.Builder
	b.WriteString(basePersona)
	b.WriteString("\n\nTask: continue an ongoing check-in conversation.\n")
	b.WriteString("Do NOT introduce yourself or restart the conversation.\n")
	b.WriteString("Stay grounded in the check-in and the response below; do not invent new circumstances.\n\n")

	fmt.Fprintf(&b, "Continuation exchange number: %d\n\n", turn+1)

	writeRatingsSection(&b, checkin.Ratings)

	if checkin.Context != "" {
		b.WriteString("\nWhat the user wrote about their day:\n")
		b.WriteString(checkin.Context)
		b.WriteString("\n")
	}

	b.WriteString("\nYour earlier response:\n")
	b.WriteString(initialResponse)
	b.WriteString("\n\nThe user's follow-up question:\n")
	b.WriteString(followUpQuestion)
	b.WriteString("\n")
	return b.String()
}

// BuildResourcePrompt produces the resource-finding request. The reply is
// expected to be a bare JSON array of at most four
// {"title","description","url"} objects.
func BuildResourcePrompt(queries []string, contextText string, concerns []domain.Dimension, loc domain.Location) string {
	var b strings.Builder
	b.WriteString("You are a local-resource finder for a wellness check-in app.\n\n")
	fmt.Fprintf(&b, "Find up to %d real, currently operating support resources near %s.\n\n", domain.MaxResources, loc.DisplayArea())

	b.WriteString("Search intents, in priority order:\n")
	for _, q := range queries {
		b.WriteString("- ")
		b.WriteString(q)
		b.WriteString("\n")
	}

	if len(concerns) > 0 {
		b.WriteString("\nThe user flagged these wellness areas as concerns: ")
		b.WriteString(joinDimensions(concerns))
		b.WriteString(".\n")
	}
	if contextText != "" {
		b.WriteString("\nWhat the user wrote about their situation:\n")
		b.WriteString(contextText)
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with ONLY a JSON array, no prose, no markdown fences.\n")
	b.WriteString(`Each element: {"title": "short label", "description": "one sentence", "url": "https://..."}`)
	b.WriteString("\n")
	return b.String()
}

// writeRatingsSection renders every present dimension with its score in
// canonical order, then lists the concern subset separately.
func writeRatingsSection(b *strings.Builder, ratings domain.Ratings) {
	b.WriteString("Today's wellness ratings (1 = struggling, 5 = thriving):\n")
	for _, d := range domain.Dimensions {
		if v, ok := ratings[d]; ok {
			fmt.Fprintf(b, "- %s: %d/5\n", d, v)
		}
	}

	if concerns := ratings.Concerns(); len(concerns) > 0 {
		b.WriteString("\nAreas of concern (rated 2 or below): ")
		b.WriteString(joinDimensions(concerns))
		b.WriteString("\n")
	}
	if strengths := ratings.Strengths(); len(strengths) > 0 {
		b.WriteString("Areas of strength (rated 4 or above): ")
		b.WriteString(joinDimensions(strengths))
		b.WriteString("\n")
	}
}

func joinDimensions(dims []domain.Dimension) string {
	parts := make([]string, 0, len(dims))
	for _, d := range dims {
		parts = append(parts, string(d))
	}
	return strings.Join(parts, ", ")
}
