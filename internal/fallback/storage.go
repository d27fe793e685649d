package fallback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fekuna/stockmanager/pkg/cache"
	"github.com/redis/go-redis/v9"
)

// Storage is a string keyed document store: the client side equivalent of browser local storage.
type Storage interface {
	// GetItem returns ok=false when the key has never been written.
	GetItem(ctx context.Context, key string) (value []byte, ok bool, err error)
	SetItem(ctx context.Context, key string, value []byte) error
}

type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (s *MemoryStorage) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStorage) SetItem(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// FileStorage keeps one <key>.json file per key under Dir.
type FileStorage struct {
	Dir string
}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{Dir: dir}
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

func (s *FileStorage) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// SetItem replaces the file atomically (temp file + rename).
func (s *FileStorage) SetItem(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("replace %s: %w", s.path(key), err)
	}
	return nil
}

// RedisStorage keeps each key as a plain Redis string under Prefix.
type RedisStorage struct {
	Client *redis.Client
	Prefix string
}

func NewRedisStorage(rc *cache.RedisClient, prefix string) *RedisStorage {
	return &RedisStorage{Client: rc.Client, Prefix: prefix}
}

func (s *RedisStorage) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.Client.Get(ctx, s.Prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

func (s *RedisStorage) SetItem(ctx context.Context, key string, value []byte) error {
	return s.Client.Set(ctx, s.Prefix+key, value, 0).Err()
}
