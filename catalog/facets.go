package catalog

import "strings"

// Facets lists the filter options available in a catalog.
// Values appear in first-seen load order.
type Facets struct {
	Skills     []string
	Categories []string
	Countries  []string
	MinPrice   float64
	MaxPrice   float64
}

// Facets collects the distinct facet values of the catalog. Skills are
// de-duplicated case-insensitively and keep the first spelling seen.
func (c *Catalog) Facets() Facets {
	var f Facets
	if c.Len() == 0 {
		return f
	}

	skills := make(map[string]bool)
	categories := make(map[string]bool)
	countries := make(map[string]bool)

	f.MinPrice = c.mentors[0].Price
	f.MaxPrice = c.mentors[0].Price
	for _, m := range c.mentors {
		for _, s := range m.Skills {
			key := strings.ToLower(s)
			if s == "" || skills[key] {
				continue
			}
			skills[key] = true
			f.Skills = append(f.Skills, s)
		}
		if !categories[m.Category] {
			categories[m.Category] = true
			f.Categories = append(f.Categories, m.Category)
		}
		if m.Country != "" && !countries[m.Country] {
			countries[m.Country] = true
			f.Countries = append(f.Countries, m.Country)
		}
		if m.Price < f.MinPrice {
			f.MinPrice = m.Price
		}
		if m.Price > f.MaxPrice {
			f.MaxPrice = m.Price
		}
	}
	return f
}
