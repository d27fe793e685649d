// Package notify keeps the short-lived notices shown to the user.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/fekuna/stockmanager/pkg/i18n"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

const DefaultTTL = 2200 * time.Millisecond

type Notice struct {
	ID      int64
	Message string
	Kind    Kind
}

type Center struct {
	mu        sync.Mutex
	tr        *i18n.Translator
	notices   []Notice
	nextID    int64
	timers    map[int64]*time.Timer
	listeners []func(Notice)
}

// NewCenter builds a center; tr may be nil, in which case ShowT displays message ids verbatim.
func NewCenter(tr *i18n.Translator) *Center {
	return &Center{
		tr:     tr,
		timers: make(map[int64]*time.Timer),
	}
}

// Show adds a notice unless it repeats the most recent one (same message and kind). It is
// dismissed after ttl; ttl <= 0 keeps it until Dismiss.
func (c *Center) Show(message string, kind Kind, ttl time.Duration) (Notice, bool) {
	c.mu.Lock()
	if n := len(c.notices); n > 0 && c.notices[n-1].Message == message && c.notices[n-1].Kind == kind {
		c.mu.Unlock()
		return Notice{}, false
	}
	c.nextID++
	notice := Notice{ID: c.nextID, Message: message, Kind: kind}
	c.notices = append(c.notices, notice)
	if ttl > 0 {
		id := notice.ID
		c.timers[id] = time.AfterFunc(ttl, func() { c.Dismiss(id) })
	}
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(notice)
	}
	return notice, true
}

// ShowT shows the localized message for id with the default TTL.
func (c *Center) ShowT(id string, data map[string]any, kind Kind) (Notice, bool) {
	return c.Show(c.T(id, data), kind, DefaultTTL)
}

func (c *Center) T(id string, data map[string]any) string {
	if c.tr == nil {
		return id
	}
	return c.tr.T(id, data)
}

func (c *Center) Dismiss(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	for i, n := range c.notices {
		if n.ID == id {
			c.notices = append(c.notices[:i], c.notices[i+1:]...)
			return
		}
	}
}

// List returns the visible notices, oldest first.
func (c *Center) List() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.notices...)
}

// OnShow registers fn to be called for every notice that is shown.
func (c *Center) OnShow(fn func(Notice)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Close stops pending dismissal timers.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}
