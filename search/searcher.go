package search

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
)

// DefaultCacheSize is the number of similarity results kept by a Searcher.
const DefaultCacheSize = 128

// Snapshotter supplies the catalog a Searcher reads. *catalog.Session
// implements it.
type Snapshotter interface {
	Snapshot() *catalog.Catalog
}

// similarKey identifies one similarity query against one catalog version.
type similarKey struct {
	fingerprint uint64
	focalID     string
	k           int
}

// rankedID is a cached similarity hit. Mentors are resolved against the
// current snapshot on every read.
type rankedID struct {
	id    string
	score int
}

// Searcher runs discovery and similarity queries against the current catalog
// of a session.
type Searcher struct {
	session   Snapshotter
	cacheSize int
	cache     *lru.Cache[similarKey, []rankedID]
	monitor   Monitor
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithCacheSize sets how many similarity results are cached.
// Zero disables the cache. Default is DefaultCacheSize.
func WithCacheSize(size int) Option {
	return func(s *Searcher) error {
		if size < 0 {
			return ErrInvalidCacheSize
		}
		s.cacheSize = size
		return nil
	}
}

// WithMonitor installs a monitor observing every Discover call.
func WithMonitor(monitor Monitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(session Snapshotter, opts ...Option) (*Searcher, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}

	s := &Searcher{
		session:   session,
		cacheSize: DefaultCacheSize,
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.cacheSize > 0 {
		cache, err := lru.New[similarKey, []rankedID](s.cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}

	return s, nil
}

// Discover runs the discovery pipeline against the current catalog.
func (s *Searcher) Discover(q Query) []core.Mentor {
	cat := s.session.Snapshot()

	s.monitor.Start(q)
	matched := filter(cat, q)
	s.monitor.AfterFilter(len(matched))
	results := Sort(matched, q.Sort)
	s.monitor.Finish(results)

	s.logger.Debug("discover", "text", q.Text, "sort", q.Sort.String(), "results", len(results))
	return results
}

// Similar returns up to k mentors similar to focalID in the current catalog.
func (s *Searcher) Similar(focalID string, k int) []core.Mentor {
	scored := s.SimilarScored(focalID, k)
	out := make([]core.Mentor, len(scored))
	for i, r := range scored {
		out[i] = r.Mentor
	}
	return out
}

// SimilarScored is Similar with scores. Rankings are cached per catalog
// fingerprint; the mentor records always come from the current snapshot.
func (s *Searcher) SimilarScored(focalID string, k int) []Scored {
	if k <= 0 {
		k = DefaultSimilarLimit
	}
	cat := s.session.Snapshot()
	key := similarKey{fingerprint: cat.Fingerprint(), focalID: focalID, k: k}

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if scored, ok := resolve(cat, cached); ok {
				s.logger.Debug("similar cache hit", "focal", focalID, "k", k)
				return scored
			}
			s.cache.Remove(key)
		}
	}

	scored := SimilarScored(cat, focalID, k)
	if s.cache != nil {
		ranked := make([]rankedID, len(scored))
		for i, r := range scored {
			ranked[i] = rankedID{id: r.Mentor.ID, score: r.Score}
		}
		s.cache.Add(key, ranked)
	}
	s.logger.Debug("similar", "focal", focalID, "k", k, "results", len(scored))
	return scored
}

// resolve looks up cached hits in cat. It fails if any ID is missing.
func resolve(cat *catalog.Catalog, ranked []rankedID) ([]Scored, bool) {
	out := make([]Scored, len(ranked))
	for i, r := range ranked {
		m, ok := cat.Get(r.id)
		if !ok {
			return nil, false
		}
		out[i] = Scored{Mentor: m, Score: r.score}
	}
	return out, true
}

// Facets returns the facet options of the current catalog.
func (s *Searcher) Facets() catalog.Facets {
	return s.session.Snapshot().Facets()
}

// Catalog returns the catalog snapshot the next query would read.
func (s *Searcher) Catalog() *catalog.Catalog {
	return s.session.Snapshot()
}

// Purge drops every cached similarity result.
func (s *Searcher) Purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}
