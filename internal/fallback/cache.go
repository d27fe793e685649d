// Package fallback is the client side store used while the item API is unreachable.
//
// The whole list lives in one JSON document under a single storage key and is rewritten on
// every mutation. Entries are addressed by local ids ("local-<ms>"). Storage failures never
// reach the caller. A failed read yields an empty list; a mutation whose read failed leaves the
// stored document untouched.
package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/stockmanager/internal/model"
	"github.com/fekuna/stockmanager/pkg/logger"
	"go.uber.org/zap"
)

const DefaultKey = "items"

type Option func(*Cache)

// WithClock replaces time.Now as the source of local ids.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithKey(key string) Option {
	return func(c *Cache) { c.key = key }
}

type Cache struct {
	mu      sync.Mutex
	storage Storage
	key     string
	now     func() time.Time
	lastID  int64
	logger  logger.ZapLogger
}

func New(storage Storage, log logger.ZapLogger, opts ...Option) *Cache {
	c := &Cache{
		storage: storage,
		key:     DefaultKey,
		now:     time.Now,
		logger:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the cached items, newest first.
func (c *Cache) Load(ctx context.Context) []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, _ := c.read(ctx)
	return items
}

// Append stores it under a fresh local id at the front of the list and returns the stored copy.
func (c *Cache) Append(ctx context.Context, it model.Item) model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read(ctx)
	stored := it.Clone()
	stored.ID = c.nextID(items)
	if err != nil {
		c.skipped("append", err)
		return stored
	}
	c.write(ctx, append([]model.Item{stored}, items...))
	return stored
}

// UpsertByID replaces every entry with the given id, or prepends it when none matches.
func (c *Cache) UpsertByID(ctx context.Context, id model.ItemID, it model.Item) model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read(ctx)
	stored := it.Clone()
	stored.ID = id
	if err != nil {
		c.skipped("upsert", err)
		return stored
	}

	found := false
	for i := range items {
		if items[i].ID.String() == id.String() {
			items[i] = stored
			found = true
		}
	}
	if !found {
		items = append([]model.Item{stored}, items...)
	}
	c.write(ctx, items)
	return stored
}

// RemoveByID drops every entry whose id matches as a string. Removing a missing id is a no-op.
func (c *Cache) RemoveByID(ctx context.Context, id model.ItemID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read(ctx)
	if err != nil {
		c.skipped("remove", err)
		return
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID.String() != id.String() {
			kept = append(kept, it)
		}
	}
	c.write(ctx, kept)
}

// read returns the stored list. On error the list is empty and must not be written back,
// or the records that could not be read would be lost.
func (c *Cache) read(ctx context.Context) ([]model.Item, error) {
	data, ok, err := c.storage.GetItem(ctx, c.key)
	if err != nil {
		c.logger.Warn("fallback cache read failed", zap.String("key", c.key), zap.Error(err))
		return []model.Item{}, fmt.Errorf("read %s: %w", c.key, err)
	}
	if !ok {
		return []model.Item{}, nil
	}
	var items []model.Item
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("fallback cache is corrupt, treating as empty", zap.String("key", c.key), zap.Error(err))
		return []model.Item{}, fmt.Errorf("decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (c *Cache) skipped(op string, err error) {
	c.logger.Error("fallback cache write skipped, stored document left untouched",
		zap.String("op", op), zap.String("key", c.key), zap.Error(err))
}

func (c *Cache) write(ctx context.Context, items []model.Item) {
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Error("fallback cache encode failed", zap.Error(err))
		return
	}
	if err := c.storage.SetItem(ctx, c.key, data); err != nil {
		c.logger.Error("fallback cache write failed", zap.String("key", c.key), zap.Error(err))
	}
}

// nextID is the current time in ms, bumped past every local id already issued or stored.
func (c *Cache) nextID(items []model.Item) model.ItemID {
	last := c.lastID
	for _, it := range items {
		if ms, ok := localMillis(it.ID); ok && ms > last {
			last = ms
		}
	}
	ms := c.now().UnixMilli()
	if ms <= last {
		ms = last + 1
	}
	c.lastID = ms
	return model.LocalIDAt(ms)
}

func localMillis(id model.ItemID) (int64, bool) {
	if !id.IsLocal() {
		return 0, false
	}
	rest, ok := strings.CutPrefix(id.String(), "local-")
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}
