package checkin

import (
	"strings"

	"github.com/marcilla-smith/wellcheck-mvp/internal/domain"
)

// keywordGroup maps a set of narrative keywords to one search topic. The
// table order is a contract: matching groups contribute in this order.
type keywordGroup struct {
	keywords []string
	phrase   string
}

var keywordGroups = []keywordGroup{
	{[]string{"job", "unemploy", "work"}, "job search unemployment assistance"},
	{[]string{"money", "financial", "bills", "rent"}, "emergency financial assistance rent help"},
	{[]string{"storm", "flood", "hurricane", "weather", "disaster"}, "disaster relief emergency assistance"},
	{[]string{"housing", "homeless", "evict"}, "housing assistance emergency shelter"},
	{[]string{"sick", "health", "medical", "doctor", "pain"}, "low cost medical clinics health services"},
	{[]string{"lonely", "sad", "depress", "anxi", "stress", "overwhelm"}, "mental health counseling support groups"},
	{[]string{"faith", "church", "spiritual", "pray", "god"}, "spiritual support faith communities"},
}

// categoryOrder fixes the fallback iteration order when the narrative
// yields no keyword match.
var categoryOrder = []domain.Dimension{
	domain.DimensionFinancial,
	domain.DimensionOccupational,
	domain.DimensionEmotional,
	domain.DimensionPhysical,
	domain.DimensionSocial,
	domain.DimensionEnvironmental,
	domain.DimensionIntellectual,
	domain.DimensionSpiritual,
}

var categoryPhrases = map[domain.Dimension]string{
	domain.DimensionFinancial:     "financial assistance programs",
	domain.DimensionOccupational:  "job search career services",
	domain.DimensionEmotional:     "mental health support services",
	domain.DimensionPhysical:      "community health clinics",
	domain.DimensionSocial:        "community groups social activities",
	domain.DimensionEnvironmental: "housing assistance services",
	domain.DimensionIntellectual:  "adult education community classes",
	domain.DimensionSpiritual:     "faith communities spiritual support",
}

const defaultPhrase = "community support services"

// SynthesizeQueries converts concern categories plus an optional free-text
// narrative into an ordered list of search intents. The narrative keyword
// path takes precedence; the per-category table is only a fallback. Every
// phrase gets the resolved location appended.
func SynthesizeQueries(concerns []domain.Dimension, narrative string, loc domain.Location) []string {
	area := loc.DisplayArea()

	var phrases []string
	if narrative != "" {
		lower := strings.ToLower(narrative)
		for _, g := range keywordGroups {
			for _, kw := range g.keywords {
				if strings.Contains(lower, kw) {
					phrases = append(phrases, g.phrase)
					break
				}
			}
		}
	}

	if len(phrases) == 0 {
		for _, c := range concerns {
			if p, ok := categoryPhrases[c]; ok {
				phrases = append(phrases, p)
			} else {
				phrases = append(phrases, defaultPhrase)
			}
		}
	}
	if len(phrases) == 0 {
		phrases = append(phrases, defaultPhrase)
	}

	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, p+" in "+area)
	}
	return out
}

// OrderConcerns sorts concern categories into the fixed fallback order,
// dropping unknown values. Callers may pass categories in any order.
func OrderConcerns(concerns []domain.Dimension) []domain.Dimension {
	present := make(map[domain.Dimension]bool, len(concerns))
	for _, c := range concerns {
		present[c] = true
	}

	var out []domain.Dimension
	for _, c := range categoryOrder {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}
