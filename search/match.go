package search

import (
	"strings"

	"github.com/poiesic/mentorit/core"
)

// Matches reports whether m matches the free-text query. A blank query
// matches everything; otherwise the trimmed query must occur, ignoring case,
// in the name, role, company or any skill.
func Matches(m core.Mentor, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return matchesLower(m, q)
}

// matchesLower expects q already trimmed and lowercased.
func matchesLower(m core.Mentor, q string) bool {
	if containsFold(m.Name, q) || containsFold(m.Role, q) || containsFold(m.Company, q) {
		return true
	}
	for _, s := range m.Skills {
		if containsFold(s, q) {
			return true
		}
	}
	return false
}

// Passes reports whether m satisfies every facet of f. Within the skills
// facet a selected value matches as a case-insensitive substring of any of
// the mentor's skills; categories and countries must match exactly.
func Passes(m core.Mentor, f core.FilterState) bool {
	if skills := f.Skills(); len(skills) > 0 && !anySkill(m, skills) {
		return false
	}
	if categories := f.Categories(); len(categories) > 0 && !contains(categories, m.Category) {
		return false
	}
	if countries := f.Countries(); len(countries) > 0 && !contains(countries, m.Country) {
		return false
	}
	return f.PriceRange().Contains(m.Price)
}

func anySkill(m core.Mentor, selected []string) bool {
	for _, want := range selected {
		w := strings.ToLower(want)
		for _, have := range m.Skills {
			if containsFold(have, w) {
				return true
			}
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// containsFold expects sub already lowercased.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
