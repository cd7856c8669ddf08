package weights

import (
	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/kraftwerte/internal/telemetry/metrics"
)

const (
	listCacheKey    = "exercises::list"
	listCacheExpire = 10 * 60 // seconds

	// freecache rounds anything smaller up to 512KiB
	minListCacheSize = 512 * 1024
)

// ListCache holds the encoded exercise list response. Every mutation must
// call Invalidate.
type ListCache struct {
	cache          *freecache.Cache
	metricsManager *metrics.Manager
}

func NewListCache(sizeBytes int, metricsManager *metrics.Manager) *ListCache {
	if sizeBytes < minListCacheSize {
		sizeBytes = minListCacheSize
	}
	return &ListCache{
		cache:          freecache.NewCache(sizeBytes),
		metricsManager: metricsManager,
	}
}

func (c *ListCache) Get() ([]byte, bool) {
	listBytes, err := c.cache.Get([]byte(listCacheKey))
	if err != nil {
		c.count("miss")
		return nil, false
	}
	c.count("hit")
	return listBytes, true
}

func (c *ListCache) Set(listBytes []byte) {
	if err := c.cache.Set([]byte(listCacheKey), listBytes, listCacheExpire); err != nil {
		log.Errorf("failed to write exercise list cache: %s", err)
	}
}

func (c *ListCache) Invalidate() {
	c.cache.Del([]byte(listCacheKey))
}

func (c *ListCache) count(result string) {
	if c.metricsManager == nil {
		return
	}
	c.metricsManager.CounterListCache.WithLabelValues(result).Inc()
}
