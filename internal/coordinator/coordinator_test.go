package coordinator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/stockmanager/internal/broadcast"
	"github.com/fekuna/stockmanager/internal/fallback"
	"github.com/fekuna/stockmanager/internal/metrics"
	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errNetwork = errors.New("dial tcp: connection refused")

// fakeRemote is an in-memory item API that can be switched offline.
type fakeRemote struct {
	mu      sync.Mutex
	offline bool
	nextID  int64
	items   []model.Item
	calls   []string
}

func (f *fakeRemote) record(call string) error {
	f.calls = append(f.calls, call)
	if f.offline {
		return errNetwork
	}
	return nil
}

func (f *fakeRemote) ListItems(ctx context.Context) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return append([]model.Item{}, f.items...), nil
}

func (f *fakeRemote) CreateItem(ctx context.Context, it model.Item) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("create"); err != nil {
		return model.Item{}, err
	}
	f.nextID++
	it.ID = model.RemoteID(f.nextID)
	f.items = append([]model.Item{it}, f.items...)
	return it, nil
}

func (f *fakeRemote) UpdateItem(ctx context.Context, id int64, it model.Item) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update"); err != nil {
		return model.Item{}, err
	}
	for i := range f.items {
		if f.items[i].ID.Remote() == id {
			it.ID = model.RemoteID(id)
			f.items[i] = it
			return it, nil
		}
	}
	return model.Item{}, errors.New("remote: status 404: not found")
}

func (f *fakeRemote) DeleteItem(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete"); err != nil {
		return err
	}
	for i := range f.items {
		if f.items[i].ID.Remote() == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errors.New("remote: status 404: not found")
}

func (f *fakeRemote) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

type fixture struct {
	remote  *fakeRemote
	cache   *fallback.Cache
	bus     *broadcast.Bus
	metrics *metrics.Sync
	logs    *observer.ObservedLogs
	coord   *Coordinator
	signals []broadcast.Signal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))

	f := &fixture{
		remote:  &fakeRemote{},
		cache:   fallback.New(fallback.NewMemoryStorage(), log, fallback.WithClock(func() time.Time { return time.UnixMilli(1_700_000_000_000) })),
		bus:     broadcast.NewBus(),
		metrics: metrics.NewSync(prometheus.NewRegistry()),
		logs:    logs,
	}
	f.coord = New(f.remote, f.cache, f.bus, f.metrics, log)
	f.bus.Subscribe(func(s broadcast.Signal) { f.signals = append(f.signals, s) })
	return f
}

func TestList_RemoteShadowsLocal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cache.Append(ctx, model.Item{Name: "offline only"})
	f.remote.items = []model.Item{{ID: model.RemoteID(1), Name: "remote"}}

	res := f.coord.List(ctx)
	assert.Equal(t, SourceRemote, res.Source)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "remote", res.Items[0].Name)

	f.remote.offline = true
	res = f.coord.List(ctx)
	assert.Equal(t, SourceLocal, res.Source)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "offline only", res.Items[0].Name)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Reads.WithLabelValues("remote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RemoteFailures.WithLabelValues("list")))
}

func TestList_RemoteEmptyStillShadows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cache.Append(ctx, model.Item{Name: "offline only"})

	res := f.coord.List(ctx)
	assert.Equal(t, SourceRemote, res.Source)
	assert.Empty(t, res.Items)
}

func TestCreate_Remote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.coord.Create(ctx, model.Item{Name: "X", Quantity: model.Ptr(int64(1))}, "inventory-form")

	assert.Equal(t, SourceRemote, res.Source)
	assert.True(t, res.Item.ID.IsRemote())
	assert.Empty(t, f.cache.Load(ctx))
	require.Len(t, f.signals, 1)
	assert.Equal(t, "inventory-form", f.signals[0].Source)
}

func TestCreate_FallsBackWhenRemoteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.remote.offline = true

	res := f.coord.Create(ctx, model.Item{Name: "X", Quantity: model.Ptr(int64(1))}, "inventory-form")
	assert.Equal(t, SourceLocal, res.Source)
	assert.Equal(t, "local-1700000000000", res.Item.ID.String())

	list := f.coord.List(ctx)
	assert.Equal(t, SourceLocal, list.Source)
	require.Len(t, list.Items, 1)
	assert.Equal(t, res.Item.ID, list.Items[0].ID)
	assert.Equal(t, "X", list.Items[0].Name)
	assert.EqualValues(t, 1, *list.Items[0].Quantity)

	assert.Len(t, f.signals, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.FallbackWrites.WithLabelValues("create")))
}

func TestUpdate_LocalIDNeverCallsRemote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stored := f.cache.Append(ctx, model.Item{Name: "X", Quantity: model.Ptr(int64(1))})

	res := f.coord.Update(ctx, stored.ID, model.Item{Name: "X", Quantity: model.Ptr(int64(5))}, "inventory-form")

	assert.Equal(t, SourceLocal, res.Source)
	assert.False(t, res.Duplicated)
	assert.False(t, f.remote.called("update"))
	items := f.cache.Load(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, stored.ID, items[0].ID)
	assert.EqualValues(t, 5, *items[0].Quantity)
	assert.Len(t, f.signals, 1)
}

func TestUpdate_Remote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.coord.Create(ctx, model.Item{Name: "X"}, "inventory-form").Item

	res := f.coord.Update(ctx, created.ID, model.Item{Name: "X", Quantity: model.Ptr(int64(9))}, "inventory-form")

	assert.Equal(t, SourceRemote, res.Source)
	assert.Equal(t, created.ID, res.Item.ID)
	assert.Empty(t, f.cache.Load(ctx))
}

func TestUpdate_RemoteFailureDuplicatesAndWarns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.coord.Create(ctx, model.Item{Name: "X"}, "inventory-form").Item
	f.remote.offline = true

	res := f.coord.Update(ctx, created.ID, model.Item{Name: "X", Quantity: model.Ptr(int64(9))}, "inventory-form")

	assert.Equal(t, SourceLocal, res.Source)
	assert.True(t, res.Duplicated)
	assert.True(t, res.Item.ID.IsLocal())

	items := f.cache.Load(ctx)
	require.Len(t, items, 1)
	assert.EqualValues(t, 9, *items[0].Quantity)

	warns := f.logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.True(t, strings.HasPrefix(warns[0].Message, "remote update failed"))
	assert.Equal(t, created.ID.String(), warns[0].ContextMap()["remote_id"])
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Duplicates))
}

func TestUpdate_ZeroIDCreates(t *testing.T) {
	f := newFixture(t)
	res := f.coord.Update(context.Background(), model.ItemID{}, model.Item{Name: "X"}, "inventory-form")
	assert.Equal(t, SourceRemote, res.Source)
	assert.True(t, f.remote.called("create"))
}

func TestDelete_RemoteThenCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.coord.Create(ctx, model.Item{Name: "X"}, "inventory-form").Item

	answered := f.coord.Delete(ctx, created.ID, "inventory-list")

	assert.Equal(t, SourceRemote, answered)
	assert.Empty(t, f.remote.items)
	require.Len(t, f.signals, 2)
	assert.Equal(t, "inventory-list", f.signals[1].Source)
}

func TestDelete_RemoteFailureStillRemovesLocally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.remote.offline = true

	answered := f.coord.Delete(ctx, model.RemoteID(3), "inventory-list")
	assert.Equal(t, SourceLocal, answered)
	assert.True(t, f.remote.called("delete"))
	assert.Len(t, f.signals, 1)
}

func TestDelete_LocalIDSkipsRemote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stored := f.cache.Append(ctx, model.Item{Name: "X"})

	answered := f.coord.Delete(ctx, stored.ID, "inventory-list")
	f.coord.Delete(ctx, stored.ID, "inventory-list")

	assert.Equal(t, SourceLocal, answered)
	assert.False(t, f.remote.called("delete"))
	assert.Empty(t, f.cache.Load(ctx))
	assert.Len(t, f.signals, 2)
}

func TestNilMetrics(t *testing.T) {
	remote := &fakeRemote{offline: true}
	c := New(remote, fallback.New(fallback.NewMemoryStorage(), logger.NewNop()), broadcast.NewBus(), nil, logger.NewNop())
	assert.NotPanics(t, func() {
		c.List(context.Background())
		c.Update(context.Background(), model.RemoteID(1), model.Item{Name: "X"}, "")
	})
}
