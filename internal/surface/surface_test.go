package surface

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/stockmanager/internal/broadcast"
	"github.com/fekuna/stockmanager/internal/coordinator"
	"github.com/fekuna/stockmanager/internal/editsession"
	"github.com/fekuna/stockmanager/internal/fallback"
	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/internal/notify"
	"github.com/fekuna/stockmanager/pkg/i18n"
	"github.com/fekuna/stockmanager/pkg/logger"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("connection refused")

type fakeRemote struct {
	mu      sync.Mutex
	offline bool
	nextID  int64
	items   []model.Item
}

func (f *fakeRemote) setOffline(v bool) {
	f.mu.Lock()
	f.offline = v
	f.mu.Unlock()
}

func (f *fakeRemote) ListItems(ctx context.Context) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return nil, errOffline
	}
	return append([]model.Item{}, f.items...), nil
}

func (f *fakeRemote) CreateItem(ctx context.Context, it model.Item) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return model.Item{}, errOffline
	}
	f.nextID++
	it.ID = model.RemoteID(f.nextID)
	f.items = append([]model.Item{it}, f.items...)
	return it, nil
}

func (f *fakeRemote) UpdateItem(ctx context.Context, id int64, it model.Item) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return model.Item{}, errOffline
	}
	for i := range f.items {
		if f.items[i].ID.Remote() == id {
			it.ID = model.RemoteID(id)
			f.items[i] = it
			return it, nil
		}
	}
	return model.Item{}, errors.New("not found")
}

func (f *fakeRemote) DeleteItem(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return errOffline
	}
	for i := range f.items {
		if f.items[i].ID.Remote() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return nil
}

type fixture struct {
	remote  *fakeRemote
	local   *fallback.Cache
	bus     *broadcast.Bus
	coord   *coordinator.Coordinator
	session *editsession.Session
	notices *notify.Center
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)

	log := logger.NewNop()
	f := &fixture{
		remote:  &fakeRemote{},
		local:   fallback.New(fallback.NewMemoryStorage(), log),
		bus:     broadcast.NewBus(),
		notices: notify.NewCenter(tr),
	}
	f.coord = coordinator.New(f.remote, f.local, f.bus, nil, log)
	f.session = editsession.New(f.bus)
	t.Cleanup(func() {
		f.session.Close()
		f.notices.Close()
	})
	return f
}

func (f *fixture) messages() []string {
	var out []string
	for _, n := range f.notices.List() {
		out = append(out, n.Message)
	}
	return out
}

func fixedDay() time.Time {
	return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)
}
