package broadcast

import (
	"sync"
	"time"
)

// DefaultDebounce is how long after its own write a subscriber ignores signals from others.
const DefaultDebounce = 250 * time.Millisecond

// Filter decides whether a subscriber should reload for a signal. It ignores signals the
// subscriber published itself and any signal stamped within the debounce window of its last
// self-update. Best effort: a concurrent edit from someone else inside the window is dropped.
type Filter struct {
	identity string
	window   time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSelf time.Time
}

func NewFilter(identity string, window time.Duration) *Filter {
	if window < 0 {
		window = 0
	}
	return &Filter{identity: identity, window: window, now: time.Now}
}

// WithClock replaces time.Now for MarkSelfUpdate.
func (f *Filter) WithClock(now func() time.Time) *Filter {
	f.now = now
	return f
}

func (f *Filter) Identity() string { return f.identity }

// MarkSelfUpdate records that the subscriber just changed the data itself.
func (f *Filter) MarkSelfUpdate() {
	f.mu.Lock()
	f.lastSelf = f.now()
	f.mu.Unlock()
}

func (f *Filter) ShouldReload(sig Signal) bool {
	if sig.Source != "" && sig.Source == f.identity {
		return false
	}
	f.mu.Lock()
	last := f.lastSelf
	f.mu.Unlock()
	if last.IsZero() {
		return true
	}
	d := sig.At.Sub(last)
	if d < 0 {
		d = -d
	}
	return d >= f.window
}
