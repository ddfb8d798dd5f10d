package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
	"github.com/poiesic/mentorit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedJSON = `[
  {"id": "1", "name": "Ana", "category": "data", "skills": ["Python", "SQL"], "price": 100, "rating": 4.5},
  {"id": "2", "name": "Ben", "category": "data", "skills": ["Python", "ML"], "price": 200, "rating": 4.8},
  {"id": "bad-rating", "name": "X", "category": "data", "skills": [], "price": 10, "rating": 7},
  {"id": "1", "name": "Ana twin", "category": "data", "skills": [], "price": 10},
  {"name": "no id", "category": "data", "skills": [], "price": 10},
  {"id": "3", "name": "Cai", "category": "design", "skills": ["Figma"], "price": 50, "rating": 4.0}
]`

func setupPipeline(t *testing.T, opts ...Option) (*Pipeline, *badger.MentorRepository, *badger.Backend) {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)

	p, err := NewPipeline(repo, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		p.Release()
		repo.Close()
		backend.Close()
	})
	return p, repo, backend
}

func storedIDs(t *testing.T, repo *badger.MentorRepository) []string {
	t.Helper()
	mentors, err := repo.ListMentors(context.Background())
	require.NoError(t, err)
	ids := make([]string, len(mentors))
	for i, m := range mentors {
		ids[i] = m.ID
	}
	return ids
}

func generateJSON(n int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := range n {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id":"m%03d","name":"Mentor %d","category":"c%d","skills":["s%d"],"price":%d}`, i, i, i%4, i%7, i)
	}
	b.WriteString("]")
	return b.String()
}

func TestNewPipeline(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewPipeline(repo, WithPoolSize(2), WithBatchSize(10), WithLogger(nil))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 10, p.batchSize)
		assert.Equal(t, 2, p.pool.Cap())
	})

	t.Run("pool size is at least one", func(t *testing.T) {
		p, err := NewPipeline(repo, WithPoolSize(0))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 1, p.pool.Cap())
	})

	t.Run("invalid batch size", func(t *testing.T) {
		_, err := NewPipeline(repo, WithBatchSize(0))
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewPipeline(nil)
		assert.Equal(t, ErrRepositoryRequired, err)
	})
}

func TestImport_ReportsRejections(t *testing.T) {
	p, repo, _ := setupPipeline(t)

	result, err := p.Import(context.Background(), "mixed.json", strings.NewReader(mixedJSON), Replace)
	require.NoError(t, err)

	assert.Equal(t, "mixed.json", result.Source)
	assert.Equal(t, 3, result.Report.Accepted)
	assert.Equal(t, 3, result.Written)
	require.Len(t, result.Report.Rejected, 3)

	assert.Equal(t, 2, result.Report.Rejected[0].Index)
	assert.ErrorIs(t, result.Report.Rejected[0].Err, core.ErrInvalidRating)
	assert.Equal(t, 3, result.Report.Rejected[1].Index)
	assert.ErrorIs(t, result.Report.Rejected[1].Err, core.ErrDuplicateID)
	assert.ErrorIs(t, result.Report.Rejected[2].Err, core.ErrMissingField)

	assert.Equal(t, []string{"1", "2", "3"}, storedIDs(t, repo))
}

func TestImport_PreservesOrderAcrossWorkersAndBatches(t *testing.T) {
	p, repo, _ := setupPipeline(t, WithPoolSize(4), WithBatchSize(7))

	result, err := p.Import(context.Background(), "generated", strings.NewReader(generateJSON(150)), Replace)
	require.NoError(t, err)
	assert.Equal(t, 150, result.Written)

	ids := storedIDs(t, repo)
	require.Len(t, ids, 150)
	for i, id := range ids {
		assert.Equal(t, fmt.Sprintf("m%03d", i), id)
	}
}

func TestImport_ReplaceClearsPreviousCatalog(t *testing.T) {
	p, repo, _ := setupPipeline(t)
	ctx := context.Background()

	_, err := p.Import(ctx, "first", strings.NewReader(generateJSON(5)), Replace)
	require.NoError(t, err)

	_, err = p.Import(ctx, "second", strings.NewReader(mixedJSON), Replace)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, storedIDs(t, repo))
}

// failingRepository lets the first okCalls writes through and fails the rest.
type failingRepository struct {
	*badger.MentorRepository
	okCalls int
	calls   int
	err     error
}

func (f *failingRepository) AddMentors(ctx context.Context, mentors ...core.Mentor) error {
	f.calls++
	if f.calls > f.okCalls {
		return f.err
	}
	return f.MentorRepository.AddMentors(ctx, mentors...)
}

func (f *failingRepository) ReplaceMentors(ctx context.Context, mentors ...core.Mentor) error {
	f.calls++
	if f.calls > f.okCalls {
		return f.err
	}
	return f.MentorRepository.ReplaceMentors(ctx, mentors...)
}

func TestImport_ReplaceKeepsPreviousCatalogOnFailure(t *testing.T) {
	_, repo, _ := setupPipeline(t)
	ctx := context.Background()
	require.NoError(t, repo.AddMentors(ctx,
		core.Mentor{ID: "old", Name: "Old", Category: "data", Skills: []string{}}))

	writeErr := errors.New("disk full")
	failing := &failingRepository{MentorRepository: repo, err: writeErr}
	p, err := NewPipeline(failing, WithBatchSize(2))
	require.NoError(t, err)
	defer p.Release()

	result, err := p.Import(ctx, "bad", strings.NewReader(generateJSON(5)), Replace)
	assert.ErrorIs(t, err, writeErr)
	require.NotNil(t, result)
	assert.Zero(t, result.Written)
	assert.Equal(t, []string{"old"}, storedIDs(t, repo))
}

func TestImport_ReplaceIsOneWriteRegardlessOfBatches(t *testing.T) {
	_, repo, _ := setupPipeline(t)
	ctx := context.Background()
	require.NoError(t, repo.AddMentors(ctx,
		core.Mentor{ID: "old", Name: "Old", Category: "data", Skills: []string{}}))

	// A second batch write would fail
	failing := &failingRepository{MentorRepository: repo, okCalls: 1, err: errors.New("disk full")}
	p, err := NewPipeline(failing, WithBatchSize(2))
	require.NoError(t, err)
	defer p.Release()

	result, err := p.Import(ctx, "five", strings.NewReader(generateJSON(5)), Replace)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Written)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, []string{"m000", "m001", "m002", "m003", "m004"}, storedIDs(t, repo))
}

func TestImport_AppendReportsPartialWrite(t *testing.T) {
	_, repo, _ := setupPipeline(t)
	ctx := context.Background()

	writeErr := errors.New("disk full")
	failing := &failingRepository{MentorRepository: repo, okCalls: 1, err: writeErr}
	p, err := NewPipeline(failing, WithBatchSize(2))
	require.NoError(t, err)
	defer p.Release()

	result, err := p.Import(ctx, "five", strings.NewReader(generateJSON(5)), Append)
	assert.ErrorIs(t, err, writeErr)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Written)
	assert.Equal(t, 5, result.Report.Accepted)
	assert.Equal(t, []string{"m000", "m001"}, storedIDs(t, repo))
}

func TestImport_AppendRejectsStoredIDs(t *testing.T) {
	p, repo, _ := setupPipeline(t)
	ctx := context.Background()

	_, err := p.Import(ctx, "first", strings.NewReader(mixedJSON), Replace)
	require.NoError(t, err)

	more := `[
	  {"id": "2", "name": "Ben again", "category": "data", "skills": [], "price": 1},
	  {"id": "4", "name": "Dee", "category": "data", "skills": ["Spark"], "price": 80}
	]`
	result, err := p.Import(ctx, "more", strings.NewReader(more), Append)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.Accepted)
	require.Len(t, result.Report.Rejected, 1)
	assert.ErrorIs(t, result.Report.Rejected[0].Err, core.ErrDuplicateID)

	assert.Equal(t, []string{"1", "2", "3", "4"}, storedIDs(t, repo))
}

func TestImport_EmptyDocument(t *testing.T) {
	p, repo, _ := setupPipeline(t)

	for _, doc := range []string{"", "[]"} {
		result, err := p.Import(context.Background(), "empty", strings.NewReader(doc), Replace)
		require.NoError(t, err)
		assert.Zero(t, result.Written)
		assert.Empty(t, storedIDs(t, repo))
	}
}

func TestImport_InvalidDocument(t *testing.T) {
	p, _, _ := setupPipeline(t)

	_, err := p.Import(context.Background(), "broken.json", strings.NewReader(`{"id": "1"}`), Replace)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrInvalidFormat)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestImport_CanceledContext(t *testing.T) {
	p, _, _ := setupPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Import(ctx, "canceled", strings.NewReader(mixedJSON), Replace)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImport_SavesManifest(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()
	manifests := badger.NewManifestRepository(backend)

	p, err := NewPipeline(repo, WithManifests(manifests))
	require.NoError(t, err)
	defer p.Release()

	ctx := context.Background()
	_, err = p.Import(ctx, "mixed.json", strings.NewReader(mixedJSON), Replace)
	require.NoError(t, err)

	manifest, err := manifests.LoadManifest(ctx)
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.Equal(t, "mixed.json", manifest.Source)
	assert.Equal(t, 3, manifest.Accepted)
	assert.Equal(t, 3, manifest.Rejected)

	cat, _, err := catalog.Load(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, cat.Fingerprint(), manifest.Fingerprint)
}

func TestImport_WritesProgress(t *testing.T) {
	var buf bytes.Buffer
	p, _, _ := setupPipeline(t, WithProgress(&buf), WithBatchSize(10))

	_, err := p.Import(context.Background(), "generated", strings.NewReader(generateJSON(25)), Replace)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "25/25")
	assert.Contains(t, output, "100.0%")
}
