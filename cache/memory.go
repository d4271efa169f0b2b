package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	store *gocache.Cache
}

// NewMemory returns an in-process cache; expired entries are swept every cleanup interval.
func NewMemory(defaultTTL, cleanup time.Duration) Cache {
	return &memoryCache{store: gocache.New(defaultTTL, cleanup)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(v.([]byte), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store.Set(key, raw, ttl)
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.store.Delete(k)
	}
	return nil
}
