package surface

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fekuna/stockmanager/internal/broadcast"
	"github.com/fekuna/stockmanager/internal/coordinator"
	"github.com/fekuna/stockmanager/internal/editsession"
	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/internal/notify"
	"github.com/fekuna/stockmanager/pkg/logger"
	"go.uber.org/zap"
)

// List shows the items from whichever store answers and reloads on foreign refresh signals.
type List struct {
	ctx     context.Context
	store   Store
	session *editsession.Session
	notices *notify.Center
	filter  *broadcast.Filter
	logger  logger.ZapLogger

	mu       sync.Mutex
	items    []model.Item
	source   coordinator.Source
	reloads  int
	onReload []func([]model.Item, coordinator.Source)
	unsub    func()
}

// NewList loads once and subscribes to bus. ctx bounds the reloads triggered by signals.
func NewList(ctx context.Context, store Store, bus *broadcast.Bus, session *editsession.Session, notices *notify.Center, debounce time.Duration, log logger.ZapLogger) *List {
	l := &List{
		ctx:     ctx,
		store:   store,
		session: session,
		notices: notices,
		filter:  broadcast.NewFilter(ListIdentity, debounce),
		logger:  log,
	}
	l.Reload(ctx)
	l.unsub = bus.Subscribe(l.onSignal)
	return l
}

func (l *List) onSignal(sig broadcast.Signal) {
	if !l.filter.ShouldReload(sig) {
		l.logger.Debug("refresh signal suppressed", zap.String("source", sig.Source))
		return
	}
	l.Reload(l.ctx)
}

// Reload fetches the items through the coordinator.
func (l *List) Reload(ctx context.Context) coordinator.ListResult {
	res := l.store.List(ctx)

	l.mu.Lock()
	l.items = res.Items
	l.source = res.Source
	l.reloads++
	hooks := slices.Clone(l.onReload)
	l.mu.Unlock()

	if res.Source == coordinator.SourceLocal && len(res.Items) > 0 {
		l.notices.ShowT("list.offline", map[string]any{"Count": len(res.Items)}, notify.KindWarning)
	}
	for _, fn := range hooks {
		fn(res.Items, res.Source)
	}
	return res
}

// Items returns the displayed items and the store they came from.
func (l *List) Items() ([]model.Item, coordinator.Source) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Item(nil), l.items...), l.source
}

// Reloads counts completed reloads.
func (l *List) Reloads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reloads
}

// OnReload registers fn to run after every reload.
func (l *List) OnReload(fn func([]model.Item, coordinator.Source)) {
	l.mu.Lock()
	l.onReload = append(l.onReload, fn)
	l.mu.Unlock()
}

// Remove deletes the item and reloads without waiting for its own signal.
func (l *List) Remove(ctx context.Context, id model.ItemID) coordinator.Source {
	answered := l.store.Delete(ctx, id, ListIdentity)
	l.filter.MarkSelfUpdate()
	l.Reload(ctx)
	l.notices.ShowT("item.deleted", nil, notify.KindSuccess)
	return answered
}

// Edit hands a copy of the displayed item to the edit session.
func (l *List) Edit(id model.ItemID) error {
	l.mu.Lock()
	var found *model.Item
	for i := range l.items {
		if l.items[i].ID.String() == id.String() {
			c := l.items[i].Clone()
			found = &c
			break
		}
	}
	l.mu.Unlock()

	if found == nil {
		l.notices.ShowT("item.not_found", nil, notify.KindError)
		return ErrNotFound
	}
	l.session.Edit(*found)
	l.notices.ShowT("edit.started", map[string]any{"Name": found.Name}, notify.KindInfo)
	return nil
}

func (l *List) Close() {
	if l.unsub != nil {
		l.unsub()
	}
}
