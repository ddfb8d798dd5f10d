package search

import (
	"strings"

	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
)

// Query is one consistent snapshot of the discovery inputs.
type Query struct {
	Text    string
	Filters core.FilterState
	Sort    core.SortKey
}

// NewQuery returns a query for text with default filters and the
// recommended ordering.
func NewQuery(text string) Query {
	return Query{
		Text:    text,
		Filters: core.NewFilterState(),
		Sort:    core.SortRecommended,
	}
}

// Discover returns the mentors of c that match q.Text and pass q.Filters,
// ordered by q.Sort. Results are a subsequence of the catalog before sorting.
// A nil catalog yields an empty result.
func Discover(c *catalog.Catalog, q Query) []core.Mentor {
	return Sort(filter(c, q), q.Sort)
}

func filter(c *catalog.Catalog, q Query) []core.Mentor {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	matched := make([]core.Mentor, 0, c.Len())
	for _, m := range c.All() {
		if text != "" && !matchesLower(m, text) {
			continue
		}
		if !Passes(m, q.Filters) {
			continue
		}
		matched = append(matched, m)
	}
	return matched
}
