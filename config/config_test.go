package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/mentorit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.Equal(t, "mentorit.db", cfg.Database.Path)
	assert.Equal(t, core.SortRecommended, cfg.SortKey())
	assert.Equal(t, 3, cfg.Search.SimilarLimit)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceWindow())
	assert.Equal(t, 128, cfg.Search.CacheSize)
	assert.Equal(t, 500, cfg.Import.BatchSize)
	assert.Equal(t, 3, cfg.Load.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
database:
  path: /var/lib/mentorit
search:
  default_sort: rating-desc
  debounce_ms: 150
import:
  pool_size: 8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/mentorit", cfg.Database.Path)
	assert.Equal(t, core.SortRatingDesc, cfg.SortKey())
	assert.Equal(t, 150*time.Millisecond, cfg.DebounceWindow())
	assert.Equal(t, 8, cfg.Import.PoolSize)
	assert.Equal(t, 3, cfg.Search.SimilarLimit, "unset values fall back to defaults")
	assert.Equal(t, 500, cfg.Import.BatchSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown sort", "search:\n  default_sort: cheapest\n"},
		{"negative cache", "search:\n  cache_size: -1\n"},
		{"negative batch", "import:\n  batch_size: -5\n"},
		{"negative attempts", "load:\n  max_attempts: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Search.DefaultSort = core.SortPriceAsc.String()
	cfg.Load.RetryDelayMS = 50
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
