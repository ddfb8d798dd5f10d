package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultMaxAttempts is the number of fetch attempts per Session.Load.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the base backoff delay between fetch attempts.
	DefaultRetryDelay = 500 * time.Millisecond
)

// Session holds the catalog for the lifetime of a view.
// Snapshot is safe for concurrent use; loads are serialized.
type Session struct {
	source      Source
	current     atomic.Pointer[Catalog]
	loadMu      sync.Mutex
	lastErr     atomic.Pointer[error]
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session) error

// WithRetry sets the fetch attempts and base backoff delay used by Load.
func WithRetry(maxAttempts int, baseDelay time.Duration) SessionOption {
	return func(s *Session) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		if baseDelay < 0 {
			baseDelay = 0
		}
		s.maxAttempts = maxAttempts
		s.retryDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSession creates a session over src. The session starts with an empty
// catalog; call Load to populate it.
func NewSession(src Source, opts ...SessionOption) (*Session, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}

	s := &Session{
		source:      src,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		logger:      slog.Default(),
	}
	s.current.Store(Empty())

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Load fetches the catalog from the session's source, retrying failed
// fetches with exponential backoff. On failure the session serves an empty
// catalog and the returned error is a *LoadError.
func (s *Session) Load(ctx context.Context) (Report, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	var candidates []Candidate
	err := retryWithBackoff(ctx, s.logger, func() error {
		var fetchErr error
		candidates, fetchErr = s.source.Fetch(ctx)
		return fetchErr
	}, s.maxAttempts, s.retryDelay)

	if err != nil {
		loadErr := error(&LoadError{Source: s.source.Name(), Err: err})
		s.logger.Error("catalog load failed", "source", s.source.Name(), "attempts", s.maxAttempts, "err", err)
		s.current.Store(Empty())
		s.lastErr.Store(&loadErr)
		return Report{}, loadErr
	}

	cat, report, _ := Load(ctx, staticSource{name: s.source.Name(), candidates: candidates}, WithLoadLogger(s.logger))
	s.current.Store(cat)
	s.lastErr.Store(nil)
	return report, nil
}

// Snapshot returns the current catalog. It is never nil.
func (s *Session) Snapshot() *Catalog {
	return s.current.Load()
}

// LastError returns the error of the most recent Load, or nil when it
// succeeded or no load has run.
func (s *Session) LastError() error {
	if p := s.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// staticSource replays already-fetched candidates through Load.
type staticSource struct {
	name       string
	candidates []Candidate
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Fetch(context.Context) ([]Candidate, error) {
	return s.candidates, nil
}
