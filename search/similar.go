package search

import (
	"slices"
	"strings"

	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
)

// DefaultSimilarLimit is the result count used when k <= 0.
const DefaultSimilarLimit = 3

// Scored pairs a mentor with its similarity score.
type Scored struct {
	Mentor core.Mentor
	Score  int
}

// Similar returns up to k mentors most similar to the mentor focalID.
// See SimilarScored for the scoring rules.
func Similar(c *catalog.Catalog, focalID string, k int) []core.Mentor {
	scored := SimilarScored(c, focalID, k)
	out := make([]core.Mentor, len(scored))
	for i, s := range scored {
		out[i] = s.Mentor
	}
	return out
}

// SimilarScored ranks every other mentor by one point for sharing the focal
// mentor's category plus one point per distinct shared skill, compared
// without case. Mentors scoring zero are left out. Ties keep catalog order.
// An unknown focalID yields an empty result.
func SimilarScored(c *catalog.Catalog, focalID string, k int) []Scored {
	if k <= 0 {
		k = DefaultSimilarLimit
	}

	focal, ok := c.Get(focalID)
	if !ok {
		return []Scored{}
	}
	focalSkills := skillSet(focal.Skills)

	scored := make([]Scored, 0, c.Len())
	for _, m := range c.All() {
		if m.ID == focal.ID {
			continue
		}
		score := sharedSkills(focalSkills, m.Skills)
		if m.Category == focal.Category {
			score++
		}
		if score == 0 {
			continue
		}
		scored = append(scored, Scored{Mentor: m, Score: score})
	}

	slices.SortStableFunc(scored, func(a, b Scored) int { return b.Score - a.Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func skillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

// sharedSkills counts distinct skills of candidate present in focal.
func sharedSkills(focal map[string]struct{}, candidate []string) int {
	seen := make(map[string]struct{}, len(candidate))
	n := 0
	for _, s := range candidate {
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := focal[key]; ok {
			n++
		}
	}
	return n
}
