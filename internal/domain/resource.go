package domain

// MaxResources caps how many support resources one search may return.
const MaxResources = 4

// Resource is one actionable local support resource. Title may carry a
// lead glyph; Description is a single sentence.
type Resource struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Usable reports whether the resource carries enough fields to show to a
// user.
func (r Resource) Usable() bool {
	return r.Title != "" && r.URL != ""
}
