package storage

import (
	"math"
	"time"
	"testing"

	"github.com/poiesic/mentorit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalMentor(t *testing.T) {
	tests := []struct {
		name   string
		mentor core.Mentor
	}{
		{
			name: "full mentor",
			mentor: core.Mentor{
				ID: "m-17", Name: "Zoë Ångström", Role: "Staff Engineer", Company: "Acme",
				Rating: 4.85, ReviewCount: 312, Country: "Sweden", CountryCode: "SE",
				Skills: []string{"Go", "Distributed Systems", "日本語"}, About: "Ten years of platform work.",
				Price: 149.99, Currency: "EUR", AvailabilityLabel: "This week", Category: "engineering",
				Subfields: []string{"backend", "infra"}, Badges: []string{"top-rated"},
				ResponseTime: "within 2h", LastActive: "yesterday", ExperienceYears: 10.5,
				SessionsCount: 1200, AttendanceRate: 98.2,
			},
		},
		{
			name:   "minimal mentor with empty skills",
			mentor: core.Mentor{ID: "1", Name: "A", Category: "c", Skills: []string{}},
		},
		{
			name: "nil and empty slices are distinct",
			mentor: core.Mentor{
				ID: "2", Name: "B", Category: "c", Skills: []string{""},
				Subfields: nil, Badges: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalMentor(tt.mentor)
			require.Len(t, data, MentorMUS.Size(tt.mentor))

			decoded, err := UnmarshalMentor(data)
			require.NoError(t, err)
			assert.Equal(t, tt.mentor, decoded)
		})
	}
}

func TestUnmarshalMentor_Invalid(t *testing.T) {
	full := MarshalMentor(core.Mentor{ID: "1", Name: "A", Category: "c", Skills: []string{"Go"}, Price: 10})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated", full[:len(full)-3]},
		{"cut inside rating", full[:9]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalMentor(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalPosition(t *testing.T) {
	for _, pos := range []uint64{0, 1, 300, math.MaxUint64} {
		decoded, err := UnmarshalPosition(MarshalPosition(pos))
		require.NoError(t, err)
		assert.Equal(t, pos, decoded)
	}

	_, err := UnmarshalPosition(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalManifest(t *testing.T) {
	manifest := &Manifest{
		Source:      "mentors.json",
		Accepted:    120,
		Rejected:    3,
		Fingerprint: 0xdeadbeefcafef00d,
		ImportedAt:  time.Date(2025, 3, 14, 15, 9, 26, 535897000, time.UTC),
	}

	decoded, err := UnmarshalManifest(MarshalManifest(manifest))
	require.NoError(t, err)
	assert.Equal(t, manifest, decoded)

	_, err = UnmarshalManifest([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
