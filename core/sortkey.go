package core

import "fmt"

// SortKey selects the ordering applied to discovery results.
type SortKey string

const (
	// SortRecommended keeps catalog order.
	SortRecommended SortKey = "recommended"
	// SortPriceAsc orders by price, cheapest first.
	SortPriceAsc SortKey = "price-asc"
	// SortPriceDesc orders by price, most expensive first.
	SortPriceDesc SortKey = "price-desc"
	// SortRatingDesc orders by rating, highest first.
	SortRatingDesc SortKey = "rating-desc"
	// SortExperienceDesc orders by years of experience, most first.
	SortExperienceDesc SortKey = "experience-desc"
)

var sortKeys = []SortKey{
	SortRecommended,
	SortPriceAsc,
	SortPriceDesc,
	SortRatingDesc,
	SortExperienceDesc,
}

// SortKeys returns every supported key in display order.
func SortKeys() []SortKey {
	out := make([]SortKey, len(sortKeys))
	copy(out, sortKeys)
	return out
}

// ParseSortKey converts user input into a SortKey.
// An empty string parses as SortRecommended.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortRecommended, nil
	}
	for _, k := range sortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// Next returns the key following k in display order, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range sortKeys {
		if key == k {
			return sortKeys[(i+1)%len(sortKeys)]
		}
	}
	return SortRecommended
}

// String implements fmt.Stringer.
func (k SortKey) String() string {
	return string(k)
}
