package domain

import "time"

// Dimension identifies one of the eight wellness dimensions a user rates
// during a daily check-in.
type Dimension string

const (
	DimensionPhysical      Dimension = "physical"
	DimensionFinancial     Dimension = "financial"
	DimensionEmotional     Dimension = "emotional"
	DimensionEnvironmental Dimension = "environmental"
	DimensionSocial        Dimension = "social"
	DimensionOccupational  Dimension = "occupational"
	DimensionIntellectual  Dimension = "intellectual"
	DimensionSpiritual     Dimension = "spiritual"
)

// Dimensions is the canonical ordering used whenever ratings are iterated,
// so prompts and derived sets come out deterministic.
var Dimensions = []Dimension{
	DimensionPhysical,
	DimensionFinancial,
	DimensionEmotional,
	DimensionEnvironmental,
	DimensionSocial,
	DimensionOccupational,
	DimensionIntellectual,
	DimensionSpiritual,
}

// Rating bounds and the thresholds that split ratings into concerns and
// strengths.
const (
	RatingMin         = 1
	RatingMax         = 5
	ConcernThreshold  = 2
	StrengthThreshold = 4
)

// Ratings maps wellness dimensions to an integer score in [1,5]. Not every
// dimension needs to be present. Immutable once submitted.
type Ratings map[Dimension]int

// Valid reports whether every entry uses a known dimension and an in-range
// score.
func (r Ratings) Valid() bool {
	known := make(map[Dimension]bool, len(Dimensions))
	for _, d := range Dimensions {
		known[d] = true
	}
	for d, v := range r {
		if !known[d] || v < RatingMin || v > RatingMax {
			return false
		}
	}
	return true
}

// Concerns returns the dimensions rated at or below the concern threshold,
// in canonical order.
func (r Ratings) Concerns() []Dimension {
	var out []Dimension
	for _, d := range Dimensions {
		if v, ok := r[d]; ok && v <= ConcernThreshold {
			out = append(out, d)
		}
	}
	return out
}

// Strengths returns the dimensions rated at or above the strength
// threshold, in canonical order.
func (r Ratings) Strengths() []Dimension {
	var out []Dimension
	for _, d := range Dimensions {
		if v, ok := r[d]; ok && v >= StrengthThreshold {
			out = append(out, d)
		}
	}
	return out
}

// Checkin is one user submission: ratings plus optional free-text context
// for a calendar date. The date carries no time component.
type Checkin struct {
	Date    time.Time
	Ratings Ratings
	Context string
}

// History is the caller-supplied chronological sequence of prior check-ins.
// This core never stores or mutates it; it is read only to derive the
// first-time flags and a prior-entry count.
type History []Checkin

// FirstEver reports whether the user has no prior check-ins at all.
func (h History) FirstEver() bool {
	return len(h) == 0
}

// FirstToday reports whether none of the prior check-ins fall on the given
// calendar date.
func (h History) FirstToday(date time.Time) bool {
	y, m, d := date.Date()
	for _, c := range h {
		cy, cm, cd := c.Date.Date()
		if cy == y && cm == m && cd == d {
			return false
		}
	}
	return true
}

// PriorCount returns how many check-ins the user has submitted before.
func (h History) PriorCount() int {
	return len(h)
}
