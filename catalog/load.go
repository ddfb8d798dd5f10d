package catalog

import (
	"context"
	"fmt"
	"log/slog"
)

// Rejection describes a record dropped during load.
type Rejection struct {
	Index int    // Position of the record in the source
	ID    string // Record ID, if one could be read
	Err   error  // Wraps core.ErrMalformedRecord
}

// Report summarizes a load.
type Report struct {
	Accepted int
	Rejected []Rejection
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	logger *slog.Logger
}

// WithLoadLogger sets the logger used to report rejected records.
// Default is slog.Default().
func WithLoadLogger(logger *slog.Logger) LoadOption {
	return func(o *loadOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// Load fetches records from src and builds a catalog.
//
// Malformed records are dropped and listed in the report. When the source
// fails, Load returns an empty catalog and a *LoadError; it never returns a
// nil catalog.
func Load(ctx context.Context, src Source, opts ...LoadOption) (*Catalog, Report, error) {
	options := &loadOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	if src == nil {
		return Empty(), Report{}, ErrSourceRequired
	}

	candidates, err := src.Fetch(ctx)
	if err != nil {
		options.logger.Error("catalog load failed", "source", src.Name(), "err", err)
		return Empty(), Report{}, &LoadError{Source: src.Name(), Err: err}
	}

	cat, report := build(candidates)
	for _, r := range report.Rejected {
		options.logger.Warn("dropping malformed mentor record",
			"source", src.Name(), "index", r.Index, "id", r.ID, "err", r.Err)
	}
	options.logger.Info("catalog loaded",
		"source", src.Name(),
		"accepted", report.Accepted,
		"rejected", len(report.Rejected),
		"fingerprint", fmt.Sprintf("%016x", cat.Fingerprint()))

	return cat, report, nil
}
