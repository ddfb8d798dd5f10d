package search

import (
	"log/slog"

	"github.com/poiesic/mentorit/core"
)

// Monitor provides hooks to observe discovery runs.
type Monitor interface {
	Start(q Query)
	AfterFilter(matched int)
	Finish(results []core.Mentor)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Query)          {}
func (n *noopMonitor) AfterFilter(_ int)      {}
func (n *noopMonitor) Finish(_ []core.Mentor) {}

// LogMonitor reports each discovery stage at debug level.
type LogMonitor struct {
	Logger *slog.Logger
}

var _ Monitor = (*LogMonitor)(nil)

// NewLogMonitor creates a monitor writing to logger, or slog.Default() if nil.
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{Logger: logger}
}

func (l *LogMonitor) Start(q Query) {
	l.Logger.Debug("discover started",
		"text", q.Text,
		"sort", q.Sort.String(),
		"activeFacets", q.Filters.ActiveFacets())
}

func (l *LogMonitor) AfterFilter(matched int) {
	l.Logger.Debug("discover filtered", "matched", matched)
}

func (l *LogMonitor) Finish(results []core.Mentor) {
	l.Logger.Debug("discover finished", "results", len(results))
}
