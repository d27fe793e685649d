// Package broadcast carries refresh signals between client surfaces.
//
// A Bus remembers the last published signal and replays it to late subscribers. Delivery is
// synchronous and queued: a publish made from inside a handler is delivered after the current
// one finishes, so every subscriber sees signals in publish order.
package broadcast

import (
	"sync"
	"time"
)

// Signal announces that the item data changed. Source is the identity of the publisher and
// may be empty.
type Signal struct {
	Source string
	At     time.Time
}

type Handler func(Signal)

type subscriber struct {
	handler Handler
	active  bool
}

type delivery struct {
	sub *subscriber
	sig Signal
}

type Bus struct {
	mu         sync.Mutex
	now        func() time.Time
	last       *Signal
	subs       []*subscriber
	queue      []delivery
	delivering bool
}

type Option func(*Bus)

func WithClock(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish stamps a signal, caches it and delivers it to every current subscriber.
func (b *Bus) Publish(source string) Signal {
	b.mu.Lock()
	sig := Signal{Source: source, At: b.now()}
	b.last = &sig
	for _, s := range b.subs {
		b.queue = append(b.queue, delivery{sub: s, sig: sig})
	}
	b.mu.Unlock()

	b.drain()
	return sig
}

// Subscribe registers h and, when a signal was published before, delivers it immediately.
// The returned func unsubscribes; queued deliveries to it are dropped.
func (b *Bus) Subscribe(h Handler) func() {
	s := &subscriber{handler: h, active: true}

	b.mu.Lock()
	b.subs = append(b.subs, s)
	if b.last != nil {
		b.queue = append(b.queue, delivery{sub: s, sig: *b.last})
	}
	b.mu.Unlock()

	b.drain()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(s) })
	}
}

// Last returns the cached signal, if any.
func (b *Bus) Last() (Signal, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return Signal{}, false
	}
	return *b.last, true
}

func (b *Bus) unsubscribe(s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.active = false
	for i, cur := range b.subs {
		if cur == s {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// drain runs queued deliveries unless another call up the stack (or another goroutine) is
// already doing so. A panicking handler releases the bus; its undelivered signals go out with
// the next publish.
func (b *Bus) drain() {
	b.mu.Lock()
	if b.delivering {
		b.mu.Unlock()
		return
	}
	b.delivering = true

	finished := false
	defer func() {
		if !finished {
			b.mu.Lock()
			b.delivering = false
			b.mu.Unlock()
		}
	}()

	for len(b.queue) > 0 {
		d := b.queue[0]
		b.queue = b.queue[1:]
		active := d.sub.active
		b.mu.Unlock()
		if active {
			d.sub.handler(d.sig)
		}
		b.mu.Lock()
	}
	b.delivering = false
	finished = true
	b.mu.Unlock()
}
