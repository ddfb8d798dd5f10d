package core

import "slices"

const (
	// DefaultMinPrice is the lower bound of the default price range.
	DefaultMinPrice = 0
	// DefaultMaxPrice is the upper bound of the default price range.
	DefaultMaxPrice = 500
)

// PriceRange is an inclusive price interval. Min <= Max always holds for
// values built with NewPriceRange.
type PriceRange struct {
	Min float64
	Max float64
}

// NewPriceRange builds a normalized range. Bounds are swapped when min > max
// and negative bounds are clamped to zero.
func NewPriceRange(min, max float64) PriceRange {
	if min > max {
		min, max = max, min
	}
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	return PriceRange{Min: min, Max: max}
}

// DefaultPriceRange returns the range applied when the user has not moved
// the price slider.
func DefaultPriceRange() PriceRange {
	return PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice}
}

// Contains reports whether price lies within the range, inclusive on both ends.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// FilterState is an immutable set of facet selections. Facets combine with AND;
// values within a facet combine with OR. An empty facet places no constraint.
//
// The zero value is not the default state; use NewFilterState.
type FilterState struct {
	skills     []string
	categories []string
	countries  []string
	priceRange PriceRange
}

// FilterOption configures a FilterState.
type FilterOption func(*FilterState)

// WithSkills replaces the selected skills.
func WithSkills(skills ...string) FilterOption {
	return func(f *FilterState) {
		f.skills = dedupe(skills)
	}
}

// WithCategories replaces the selected categories.
func WithCategories(categories ...string) FilterOption {
	return func(f *FilterState) {
		f.categories = dedupe(categories)
	}
}

// WithCountries replaces the selected countries.
func WithCountries(countries ...string) FilterOption {
	return func(f *FilterState) {
		f.countries = dedupe(countries)
	}
}

// WithPriceRange replaces the price range. The bounds are normalized.
func WithPriceRange(min, max float64) FilterOption {
	return func(f *FilterState) {
		f.priceRange = NewPriceRange(min, max)
	}
}

// NewFilterState returns the default state (no selections, price 0..500) with
// the options applied.
func NewFilterState(opts ...FilterOption) FilterState {
	f := FilterState{priceRange: DefaultPriceRange()}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// With returns a copy of f with the options applied. f is not modified.
func (f FilterState) With(opts ...FilterOption) FilterState {
	next := f.clone()
	for _, opt := range opts {
		opt(&next)
	}
	return next
}

// ToggleSkill returns a copy with skill added, or removed when already selected.
func (f FilterState) ToggleSkill(skill string) FilterState {
	next := f.clone()
	next.skills = toggle(next.skills, skill)
	return next
}

// ToggleCategory returns a copy with category added or removed.
func (f FilterState) ToggleCategory(category string) FilterState {
	next := f.clone()
	next.categories = toggle(next.categories, category)
	return next
}

// ToggleCountry returns a copy with country added or removed.
func (f FilterState) ToggleCountry(country string) FilterState {
	next := f.clone()
	next.countries = toggle(next.countries, country)
	return next
}

// Reset returns the default state.
func (f FilterState) Reset() FilterState {
	return NewFilterState()
}

// Skills returns the selected skills.
func (f FilterState) Skills() []string { return slices.Clone(f.skills) }

// Categories returns the selected categories.
func (f FilterState) Categories() []string { return slices.Clone(f.categories) }

// Countries returns the selected countries.
func (f FilterState) Countries() []string { return slices.Clone(f.countries) }

// PriceRange returns the selected price range.
func (f FilterState) PriceRange() PriceRange { return f.priceRange }

// ActiveFacets counts the facets that currently constrain results.
func (f FilterState) ActiveFacets() int {
	n := 0
	if len(f.skills) > 0 {
		n++
	}
	if len(f.categories) > 0 {
		n++
	}
	if len(f.countries) > 0 {
		n++
	}
	if f.priceRange != DefaultPriceRange() {
		n++
	}
	return n
}

func (f FilterState) clone() FilterState {
	return FilterState{
		skills:     slices.Clone(f.skills),
		categories: slices.Clone(f.categories),
		countries:  slices.Clone(f.countries),
		priceRange: f.priceRange,
	}
}

// dedupe drops empty and repeated values, keeping first-seen order.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func toggle(values []string, v string) []string {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(values, i, i+1)
	}
	if v == "" {
		return values
	}
	return append(values, v)
}
