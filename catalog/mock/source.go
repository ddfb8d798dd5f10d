package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/poiesic/mentorit/catalog"
	"github.com/poiesic/mentorit/core"
)

// MockSource is a catalog.Source with injectable behavior.
type MockSource struct {
	// FetchFunc is called by Fetch if set.
	// If nil, returns the mentors the source was created with.
	FetchFunc func(ctx context.Context) ([]catalog.Candidate, error)

	// SourceName is returned by Name. Default is "mock".
	SourceName string

	mentors   []core.Mentor
	callCount atomic.Int32
}

var _ catalog.Source = (*MockSource)(nil)

// NewMockSource creates a source serving mentors in the given order.
func NewMockSource(mentors ...core.Mentor) *MockSource {
	return &MockSource{SourceName: "mock", mentors: mentors}
}

// Name returns SourceName.
func (m *MockSource) Name() string {
	return m.SourceName
}

// Fetch returns the configured candidates.
func (m *MockSource) Fetch(ctx context.Context) ([]catalog.Candidate, error) {
	m.callCount.Add(1)

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return Candidates(m.mentors...), nil
}

// CallCount returns the number of Fetch calls.
func (m *MockSource) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and FetchFunc.
func (m *MockSource) Reset() {
	m.callCount.Store(0)
	m.FetchFunc = nil
}

// Candidates wraps mentors as valid candidates.
func Candidates(mentors ...core.Mentor) []catalog.Candidate {
	out := make([]catalog.Candidate, len(mentors))
	for i, mentor := range mentors {
		out[i] = catalog.Candidate{Mentor: mentor}
	}
	return out
}

// FailTimes returns a FetchFunc that fails n times with err and then serves mentors.
func FailTimes(n int, err error, mentors ...core.Mentor) func(ctx context.Context) ([]catalog.Candidate, error) {
	var mu sync.Mutex
	failures := 0
	return func(ctx context.Context) ([]catalog.Candidate, error) {
		mu.Lock()
		defer mu.Unlock()
		if failures < n {
			failures++
			return nil, err
		}
		return Candidates(mentors...), nil
	}
}
