package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input   string
		want    SortKey
		wantErr bool
	}{
		{input: "", want: SortRecommended},
		{input: "recommended", want: SortRecommended},
		{input: "price-asc", want: SortPriceAsc},
		{input: "price-desc", want: SortPriceDesc},
		{input: "rating-desc", want: SortRatingDesc},
		{input: "experience-desc", want: SortExperienceDesc},
		{input: "rating-asc", wantErr: true},
		{input: "Price-Asc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortKey(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownSortKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortKey_Next(t *testing.T) {
	keys := SortKeys()
	require.Len(t, keys, 5)

	k := SortRecommended
	for i := 1; i <= len(keys); i++ {
		k = k.Next()
		assert.Equal(t, keys[i%len(keys)], k)
	}

	assert.Equal(t, SortRecommended, SortKey("bogus").Next())
}
