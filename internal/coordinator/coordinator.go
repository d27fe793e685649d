// Package coordinator decides, per call, whether the item API or the local fallback cache
// serves a read or takes a write.
//
// Reads: the remote list when it answers (local records are then invisible), otherwise the
// fallback contents; the two are never merged. Writes never fail from the caller's point of
// view: a remote failure is absorbed by the fallback cache. Every write publishes a refresh
// signal tagged with the caller's source.
package coordinator

import (
	"context"

	"github.com/fekuna/stockmanager/internal/broadcast"
	"github.com/fekuna/stockmanager/internal/metrics"
	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/pkg/logger"
	"go.uber.org/zap"
)

type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

type RemoteStore interface {
	ListItems(ctx context.Context) ([]model.Item, error)
	CreateItem(ctx context.Context, it model.Item) (model.Item, error)
	UpdateItem(ctx context.Context, id int64, it model.Item) (model.Item, error)
	DeleteItem(ctx context.Context, id int64) error
}

type LocalStore interface {
	Load(ctx context.Context) []model.Item
	Append(ctx context.Context, it model.Item) model.Item
	UpsertByID(ctx context.Context, id model.ItemID, it model.Item) model.Item
	RemoveByID(ctx context.Context, id model.ItemID)
}

type ListResult struct {
	Items  []model.Item
	Source Source
}

// Result describes a completed write. Duplicated is set when a failed remote update was kept
// as a new local record, leaving the remote original untouched.
type Result struct {
	Item       model.Item
	Source     Source
	Duplicated bool
}

type Coordinator struct {
	remote  RemoteStore
	local   LocalStore
	bus     *broadcast.Bus
	metrics *metrics.Sync
	logger  logger.ZapLogger
}

// New wires a coordinator; m may be nil.
func New(remote RemoteStore, local LocalStore, bus *broadcast.Bus, m *metrics.Sync, log logger.ZapLogger) *Coordinator {
	return &Coordinator{
		remote:  remote,
		local:   local,
		bus:     bus,
		metrics: m,
		logger:  log,
	}
}

func (c *Coordinator) List(ctx context.Context) ListResult {
	items, err := c.remote.ListItems(ctx)
	if err == nil {
		c.metrics.Read(string(SourceRemote))
		return ListResult{Items: items, Source: SourceRemote}
	}
	c.remoteFailed("list", err)
	c.metrics.Read(string(SourceLocal))
	return ListResult{Items: c.local.Load(ctx), Source: SourceLocal}
}

func (c *Coordinator) Create(ctx context.Context, it model.Item, source string) Result {
	defer c.bus.Publish(source)

	created, err := c.remote.CreateItem(ctx, it)
	if err == nil {
		return Result{Item: created, Source: SourceRemote}
	}
	c.remoteFailed("create", err)
	c.metrics.FallbackWrite("create")
	return Result{Item: c.local.Append(ctx, it), Source: SourceLocal}
}

// Update writes it over the item with the given id. Local ids only ever touch the fallback
// cache; an id without a space is treated as a create.
func (c *Coordinator) Update(ctx context.Context, id model.ItemID, it model.Item, source string) Result {
	switch {
	case id.IsLocal():
		defer c.bus.Publish(source)
		c.metrics.FallbackWrite("update")
		return Result{Item: c.local.UpsertByID(ctx, id, it), Source: SourceLocal}
	case !id.IsRemote():
		return c.Create(ctx, it, source)
	}

	defer c.bus.Publish(source)

	updated, err := c.remote.UpdateItem(ctx, id.Remote(), it)
	if err == nil {
		return Result{Item: updated, Source: SourceRemote}
	}
	c.remoteFailed("update", err)

	stored := c.local.Append(ctx, it)
	c.metrics.FallbackWrite("update")
	c.metrics.Duplicate()
	c.logger.Warn("remote update failed, edit kept as a new local item; the remote original is unchanged",
		zap.String("remote_id", id.String()),
		zap.String("local_id", stored.ID.String()),
		zap.Error(err),
	)
	return Result{Item: stored, Source: SourceLocal, Duplicated: true}
}

// Delete removes the item remotely (remote ids only) and then from the fallback cache in any
// case. It reports which store confirmed the removal.
func (c *Coordinator) Delete(ctx context.Context, id model.ItemID, source string) Source {
	defer c.bus.Publish(source)

	answered := SourceLocal
	if id.IsRemote() {
		if err := c.remote.DeleteItem(ctx, id.Remote()); err != nil {
			c.remoteFailed("delete", err)
		} else {
			answered = SourceRemote
		}
	}
	c.local.RemoveByID(ctx, id)
	return answered
}

func (c *Coordinator) remoteFailed(op string, err error) {
	c.metrics.RemoteFailure(op)
	c.logger.Debug("remote store unavailable, using fallback", zap.String("op", op), zap.Error(err))
}
