package search

import (
	"slices"

	"github.com/poiesic/mentorit/core"
)

// Sort returns a copy of mentors ordered by key. The sort is stable, so ties
// keep their input order. Unknown keys and SortRecommended keep input order.
func Sort(mentors []core.Mentor, key core.SortKey) []core.Mentor {
	out := slices.Clone(mentors)
	if out == nil {
		out = []core.Mentor{}
	}

	cmp := comparator(key)
	if cmp == nil {
		return out
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(key core.SortKey) func(a, b core.Mentor) int {
	switch key {
	case core.SortPriceAsc:
		return func(a, b core.Mentor) int { return compareFloat(a.Price, b.Price) }
	case core.SortPriceDesc:
		return func(a, b core.Mentor) int { return compareFloat(b.Price, a.Price) }
	case core.SortRatingDesc:
		return func(a, b core.Mentor) int { return compareFloat(b.Rating, a.Rating) }
	case core.SortExperienceDesc:
		return func(a, b core.Mentor) int { return compareFloat(b.ExperienceYears, a.ExperienceYears) }
	default:
		return nil
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
