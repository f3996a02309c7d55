package checkin

import (
	"encoding/json"
	"regexp"

	"github.com/marcilla-smith/wellcheck-mvp/internal/domain"
)

// arrayPattern locates the first bracketed JSON array in otherwise
// unstructured model output.
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ParseResources extracts a validated resource list from raw model output.
// Any failure (no array, bad JSON, zero usable items) degrades to the
// static fallback; the result is always at most domain.MaxResources long
// and preserves source order. This function never panics or errors.
func ParseResources(raw string, loc domain.Location) []domain.Resource {
	match := arrayPattern.FindString(raw)
	if match == "" {
		return FallbackResources(loc)
	}

	var items []domain.Resource
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		return FallbackResources(loc)
	}

	out := make([]domain.Resource, 0, domain.MaxResources)
	for _, it := range items {
		if !it.Usable() {
			continue
		}
		out = append(out, it)
		if len(out) == domain.MaxResources {
			break
		}
	}

	if len(out) == 0 {
		return FallbackResources(loc)
	}
	return out
}

// FallbackResources is the static list returned when the model output is
// unusable: a generic referral hotline and a crisis line, described with
// the resolved location where one is available.
func FallbackResources(loc domain.Location) []domain.Resource {
	area := loc.DisplayArea()
	return []domain.Resource{
		{
			Title:       "📞 211 Community Resources",
			Description: "Dial 211 for free, confidential referrals to local assistance programs in " + area + ".",
			URL:         "https://www.211.org",
		},
		{
			Title:       "🆘 988 Crisis Support",
			Description: "Call or text 988 any time for free crisis support, wherever you are in " + area + ".",
			URL:         "https://988lifeline.org",
		},
	}
}
