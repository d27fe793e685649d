package broadcast

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sources(sigs []Signal) []string {
	out := make([]string, len(sigs))
	for i, s := range sigs {
		out[i] = s.Source
	}
	return out
}

func TestSubscribe_NoLateJoinBeforeFirstPublish(t *testing.T) {
	b := NewBus()
	var got []Signal
	b.Subscribe(func(s Signal) { got = append(got, s) })

	assert.Empty(t, got)
	_, ok := b.Last()
	assert.False(t, ok)
}

func TestSubscribe_LateJoinGetsCachedSignal(t *testing.T) {
	at := time.UnixMilli(1000)
	b := NewBus(WithClock(func() time.Time { return at }))
	b.Publish("inventory-form")
	b.Publish("inventory-list")

	var got []Signal
	b.Subscribe(func(s Signal) { got = append(got, s) })

	require.Len(t, got, 1)
	assert.Equal(t, "inventory-list", got[0].Source)
	assert.Equal(t, at, got[0].At)

	b.Publish("")
	assert.Equal(t, []string{"inventory-list", ""}, sources(got))
}

func TestPublish_ReentrantKeepsOrderPerSubscriber(t *testing.T) {
	b := NewBus()
	var first, second []Signal

	b.Subscribe(func(s Signal) {
		first = append(first, s)
		if s.Source == "one" {
			b.Publish("two")
		}
	})
	b.Subscribe(func(s Signal) { second = append(second, s) })

	b.Publish("one")

	assert.Equal(t, []string{"one", "two"}, sources(first))
	assert.Equal(t, []string{"one", "two"}, sources(second))
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, "two", last.Source)
}

func TestSubscribe_FromInsideHandler(t *testing.T) {
	b := NewBus()
	var inner []Signal
	b.Subscribe(func(s Signal) {
		if len(inner) == 0 && s.Source == "one" {
			b.Subscribe(func(s Signal) { inner = append(inner, s) })
		}
	})

	b.Publish("one")
	b.Publish("two")

	assert.Equal(t, []string{"one", "two"}, sources(inner))
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	var got []Signal
	unsub := b.Subscribe(func(s Signal) { got = append(got, s) })

	b.Publish("a")
	unsub()
	unsub()
	b.Publish("b")

	assert.Equal(t, []string{"a"}, sources(got))
}

func TestUnsubscribe_DropsQueuedDelivery(t *testing.T) {
	b := NewBus()
	var got []Signal
	var unsubSecond func()

	b.Subscribe(func(s Signal) { unsubSecond() })
	unsubSecond = b.Subscribe(func(s Signal) { got = append(got, s) })

	b.Publish("a")
	assert.Empty(t, got)
}

func TestPublish_Concurrent(t *testing.T) {
	b := NewBus()
	var mu sync.Mutex
	count := 0
	b.Subscribe(func(Signal) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish("x")
		}()
	}
	wg.Wait()

	// a publisher may return while another goroutine drains its delivery
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 20
	}, time.Second, time.Millisecond)
}

func TestPublish_PanickingHandlerDoesNotStallBus(t *testing.T) {
	b := NewBus()
	panicked := false
	b.Subscribe(func(s Signal) {
		if !panicked {
			panicked = true
			panic("handler failed")
		}
	})
	var got []Signal
	b.Subscribe(func(s Signal) { got = append(got, s) })

	assert.Panics(t, func() { b.Publish("a") })
	b.Publish("b")
	b.Publish("c")

	assert.Equal(t, []string{"a", "b", "c"}, sources(got))
}
