// Package editsession tracks the single item a client is currently editing.
package editsession

import (
	"sync"

	"github.com/fekuna/stockmanager/internal/broadcast"
	"github.com/fekuna/stockmanager/internal/model"
)

type State int

const (
	Idle State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "idle"
}

// Observer is called with the new target, or nil when the session goes idle.
type Observer func(target *model.Item)

// Session holds at most one edit target. Any refresh signal on the bus ends the session; there
// is no timeout.
type Session struct {
	mu        sync.Mutex
	target    *model.Item
	observers []*observer
	unsub     func()
}

type observer struct {
	fn Observer
}

func New(bus *broadcast.Bus) *Session {
	s := &Session{}
	s.unsub = bus.Subscribe(func(broadcast.Signal) { s.clear() })
	return s
}

// Edit starts editing a private copy of it, replacing any previous target.
func (s *Session) Edit(it model.Item) {
	c := it.Clone()
	s.set(&c)
}

func (s *Session) Cancel() { s.clear() }

// Saved ends the session after the target was written, remotely or to the fallback cache.
func (s *Session) Saved() { s.clear() }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return Idle
	}
	return Editing
}

// Target returns a copy of the item being edited.
func (s *Session) Target() (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return model.Item{}, false
	}
	return s.target.Clone(), true
}

// Watch registers fn for every later target change. The returned func removes it.
func (s *Session) Watch(fn Observer) func() {
	o := &observer{fn: fn}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cur := range s.observers {
			if cur == o {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Close detaches the session from the bus.
func (s *Session) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

func (s *Session) clear() {
	s.mu.Lock()
	if s.target == nil {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.set(nil)
}

func (s *Session) set(target *model.Item) {
	s.mu.Lock()
	s.target = target
	observers := append([]*observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		if target == nil {
			o.fn(nil)
			continue
		}
		c := target.Clone()
		o.fn(&c)
	}
}
