package cache

import "github.com/guttosm/assembly-service/internal/domain/model"

// Cache defines the interface for product cache operations.
type Cache interface {
	Get(sku string) (*model.Product, bool)
	Set(sku string, value *model.Product)
	Invalidate(sku string)
	Clear()
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
