package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
	"github.com/poiesic/mentorit/storage"
)

// DefaultBatchSize is the number of mentors written per storage transaction.
const DefaultBatchSize = 500

// Pipeline imports JSON mentor catalogs into a repository.
// Records are decoded and validated concurrently; writes keep source order.
type Pipeline struct {
	repository storage.MentorRepository
	manifests  storage.ManifestRepository
	pool       *ants.Pool
	batchSize  int
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent decoding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many mentors are written per transaction.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithManifests records a storage.Manifest after every successful import.
func WithManifests(manifests storage.ManifestRepository) Option {
	return func(p *Pipeline) error {
		p.manifests = manifests
		return nil
	}
}

// WithProgress writes a progress line to w while records are stored.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new import pipeline.
func NewPipeline(repository storage.MentorRepository, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		pool:       pool,
		batchSize:  DefaultBatchSize,
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Mode selects what happens to mentors already in the repository.
type Mode int

const (
	// Replace swaps the stored mentors for the imported ones atomically.
	Replace Mode = iota
	// Append writes after the stored mentors. Records whose ID is already
	// stored are rejected as duplicates.
	Append
)

// Result summarizes one import.
type Result struct {
	Source string
	Report catalog.Report
	// Written is the number of mentors stored. It equals Report.Accepted
	// unless the import was interrupted.
	Written int
}

// Import reads a JSON array of mentor records from r and stores the valid
// ones in source order. Malformed records and repeated IDs are dropped and
// listed in the result's report.
func (p *Pipeline) Import(ctx context.Context, name string, r io.Reader, mode Mode) (*Result, error) {
	raws, err := catalog.DecodeArray(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	candidates, err := p.decode(ctx, raws)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	if mode == Append {
		stored, err := p.repository.ListMentors(ctx)
		if err != nil {
			return nil, err
		}
		for _, m := range stored {
			seen[m.ID] = true
		}
	}

	accepted, report := screen(candidates, seen)
	for _, rej := range report.Rejected {
		p.logger.Warn("dropping malformed mentor record",
			"source", name, "index", rej.Index, "id", rej.ID, "err", rej.Err)
	}

	result := &Result{Source: name, Report: report}
	var written int
	if mode == Replace {
		written, err = p.replace(ctx, accepted)
	} else {
		written, err = p.write(ctx, accepted)
	}
	result.Written = written
	if err != nil {
		p.logger.Error("import interrupted", "source", name, "written", written, "err", err)
		return result, err
	}

	if err := p.saveManifest(ctx, result); err != nil {
		return result, err
	}

	p.logger.Info("import complete",
		"source", name,
		"accepted", report.Accepted,
		"rejected", len(report.Rejected))
	return result, nil
}

// decode runs DecodeRecord and ValidateMentor for every raw record on the
// pool. Results are stored by index so source order survives.
func (p *Pipeline) decode(ctx context.Context, raws []json.RawMessage) ([]catalog.Candidate, error) {
	candidates := make([]catalog.Candidate, len(raws))

	var wg sync.WaitGroup
	for i := range raws {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			candidates[i] = decodeCandidate(raws[i])
		}
		if err := p.pool.Submit(task); err != nil {
			p.logger.Debug("pool rejected task, decoding inline", "index", i, "err", err)
			task()
		}
	}
	wg.Wait()

	return candidates, nil
}

func decodeCandidate(raw json.RawMessage) catalog.Candidate {
	m, err := catalog.DecodeRecord(raw)
	if err == nil {
		err = core.ValidateMentor(&m)
	}
	return catalog.Candidate{Mentor: m, Err: err}
}

// screen keeps valid candidates whose ID has not been seen, in order.
func screen(candidates []catalog.Candidate, seen map[string]bool) ([]core.Mentor, catalog.Report) {
	var report catalog.Report
	accepted := make([]core.Mentor, 0, len(candidates))

	for i, c := range candidates {
		if c.Err != nil {
			report.Rejected = append(report.Rejected, catalog.Rejection{Index: i, ID: c.Mentor.ID, Err: c.Err})
			continue
		}
		if seen[c.Mentor.ID] {
			err := fmt.Errorf("%w: %w: %s", core.ErrMalformedRecord, core.ErrDuplicateID, c.Mentor.ID)
			report.Rejected = append(report.Rejected, catalog.Rejection{Index: i, ID: c.Mentor.ID, Err: err})
			continue
		}
		seen[c.Mentor.ID] = true
		accepted = append(accepted, c.Mentor)
	}

	report.Accepted = len(accepted)
	return accepted, report
}

// replace swaps the stored mentors for mentors in one transaction, so a
// failure leaves the previous catalog in place.
func (p *Pipeline) replace(ctx context.Context, mentors []core.Mentor) (int, error) {
	tracker := NewProgressTracker(p.progress, len(mentors), p.batchSize)
	tracker.Start()
	defer tracker.Finish()

	if err := p.repository.ReplaceMentors(ctx, mentors...); err != nil {
		return 0, err
	}
	tracker.Increment(len(mentors))
	p.logger.Debug("replaced stored mentors", "count", len(mentors))
	return len(mentors), nil
}

// write appends mentors in batches and returns how many were written.
// Batches committed before a failure stay stored.
func (p *Pipeline) write(ctx context.Context, mentors []core.Mentor) (int, error) {
	tracker := NewProgressTracker(p.progress, len(mentors), p.batchSize)
	tracker.Start()
	defer tracker.Finish()

	written := 0
	for start := 0; start < len(mentors); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		end := min(start+p.batchSize, len(mentors))
		if err := p.repository.AddMentors(ctx, mentors[start:end]...); err != nil {
			return written, err
		}
		written = end
		tracker.Increment(end - start)
		p.logger.Debug("stored mentor batch", "from", start, "to", end)
	}
	return written, nil
}

func (p *Pipeline) saveManifest(ctx context.Context, result *Result) error {
	if p.manifests == nil {
		return nil
	}

	stored, err := p.repository.ListMentors(ctx)
	if err != nil {
		return err
	}
	cat, _ := catalog.New(stored)

	return p.manifests.SaveManifest(ctx, &storage.Manifest{
		Source:      result.Source,
		Accepted:    result.Report.Accepted,
		Rejected:    len(result.Report.Rejected),
		Fingerprint: cat.Fingerprint(),
	})
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
