package persistence

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/khoahotran/duo-site/internal/application/service"
)

const memoryCachePages = 64

type memoryPage struct {
	body     []byte
	storedAt time.Time
}

// memoryPageCache is the in-process page cache used when Redis is not
// configured. Entries expire after the same TTL as the Redis cache.
type memoryPageCache struct {
	cache *lru.Cache[string, memoryPage]
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryPageCache() service.PageCache {
	cache, err := lru.New[string, memoryPage](memoryCachePages)
	if err != nil {
		panic(err)
	}
	return &memoryPageCache{cache: cache, ttl: pageTTL, now: time.Now}
}

func (c *memoryPageCache) Get(_ context.Context, path string) ([]byte, bool) {
	entry, ok := c.cache.Get(path)
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.cache.Remove(path)
		return nil, false
	}
	return entry.body, true
}

func (c *memoryPageCache) Set(_ context.Context, path string, body []byte) error {
	c.cache.Add(path, memoryPage{body: body, storedAt: c.now()})
	return nil
}

func (c *memoryPageCache) Invalidate(_ context.Context, paths ...string) error {
	for _, p := range paths {
		c.cache.Remove(p)
	}
	return nil
}
