package finance

import (
	"sync"
	"time"
)

const chartCacheTTL = 60 * time.Second

type chartCacheEntry struct {
	createdAt time.Time
	image     []byte
}

// imageCache keeps rendered PNGs for a fixed TTL, keyed by request.
type imageCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]chartCacheEntry
}

func newImageCache(ttl time.Duration) *imageCache {
	return &imageCache{ttl: ttl, now: time.Now, entries: map[string]chartCacheEntry{}}
}

var chartImages = newImageCache(chartCacheTTL)

func (c *imageCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.createdAt.Add(c.ttl)) {
		delete(c.entries, key)
		return nil, false
	}
	img := make([]byte, len(entry.image))
	copy(img, entry.image)
	return img, true
}

func (c *imageCache) set(key string, img []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	// sweep expired entries
	for k, e := range c.entries {
		if !now.Before(e.createdAt.Add(c.ttl)) {
			delete(c.entries, k)
		}
	}
	stored := make([]byte, len(img))
	copy(stored, img)
	c.entries[key] = chartCacheEntry{createdAt: now, image: stored}
}

func (c *imageCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cacheGet(key string) ([]byte, bool) { return chartImages.get(key) }

func cacheSet(key string, img []byte) { chartImages.set(key, img) }
