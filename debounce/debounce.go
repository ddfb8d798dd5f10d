package debounce

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultWindow is the quiescence period used when no window is configured.
const DefaultWindow = 300 * time.Millisecond

// Debouncer delays a callback until its input has been quiet for a window.
// Each Trigger supersedes the previous one; only the most recent value is
// delivered. Safe for concurrent use.
type Debouncer struct {
	fn     func(string)
	window time.Duration
	logger *slog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	pending    bool
	value      string
	stopped    bool
}

// Option configures a Debouncer.
type Option func(*Debouncer) error

// WithWindow sets the quiescence window.
// Default is DefaultWindow. Non-positive values fire on the next timer tick.
func WithWindow(d time.Duration) Option {
	return func(db *Debouncer) error {
		if d < 0 {
			d = 0
		}
		db.window = d
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(db *Debouncer) error {
		if logger == nil {
			logger = slog.Default()
		}
		db.logger = logger
		return nil
	}
}

// New creates a debouncer that calls fn with the last triggered value.
func New(fn func(string), opts ...Option) (*Debouncer, error) {
	if fn == nil {
		return nil, ErrCallbackRequired
	}

	db := &Debouncer{
		fn:     fn,
		window: DefaultWindow,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Trigger records raw as the latest value and restarts the window.
// Calls after Stop are ignored.
func (d *Debouncer) Trigger(raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.generation++
	gen := d.generation
	d.value = raw
	d.pending = true
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// fire runs the callback if gen is still the newest generation. A timer that
// expired while a later Trigger was taking the lock is discarded here.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || !d.pending || gen != d.generation {
		d.mu.Unlock()
		d.logger.Debug("discarding superseded debounce", "generation", gen)
		return
	}
	value := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(value)
}

// Flush runs the pending callback immediately on the calling goroutine.
// It reports whether a callback ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	value := d.value
	d.pending = false
	d.mu.Unlock()

	d.fn(value)
	return true
}

// Stop cancels any pending callback and disables the debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	d.pending = false
	d.stopped = true
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Window returns the configured quiescence window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}
