//go:build !integration

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

// TestCacheInterface tests that the Cache interface is properly defined.
// This is a compile-time test to ensure the interface contract is correct.
func TestCacheInterface(t *testing.T) {
	var c Cache = &mockCache{}

	result, found := c.Get("APPLE")
	assert.False(t, found)
	assert.Nil(t, result)

	c.Set("APPLE", &model.Product{SKU: "APPLE"})
	c.Stop()
}

// TestCacheWithMetricsInterface tests that the CacheWithMetrics interface is properly defined.
func TestCacheWithMetricsInterface(t *testing.T) {
	var c CacheWithMetrics = &mockCacheWithMetrics{}

	result, found := c.Get("APPLE")
	assert.False(t, found)
	assert.Nil(t, result)

	c.Set("APPLE", &model.Product{SKU: "APPLE"})

	metrics := c.Metrics()
	assert.Equal(t, Metrics{}, metrics)

	c.Stop()
}

// TestMetricsStructure tests the Metrics struct.
func TestMetricsStructure(t *testing.T) {
	metrics := Metrics{
		Hits:      10,
		Misses:    5,
		Evictions: 2,
		Size:      8,
		Capacity:  10,
	}

	assert.Equal(t, int64(10), metrics.Hits)
	assert.Equal(t, int64(5), metrics.Misses)
	assert.Equal(t, int64(2), metrics.Evictions)
	assert.Equal(t, 8, metrics.Size)
	assert.Equal(t, 10, metrics.Capacity)
}

// mockCache is a minimal implementation of Cache for testing.
type mockCache struct{}

func (m *mockCache) Get(sku string) (*model.Product, bool) {
	return nil, false
}

func (m *mockCache) Set(sku string, value *model.Product) {}

func (m *mockCache) Invalidate(sku string) {}

func (m *mockCache) Clear() {}

func (m *mockCache) Stop() {}

// mockCacheWithMetrics is a minimal implementation of CacheWithMetrics for testing.
type mockCacheWithMetrics struct {
	mockCache
}

func (m *mockCacheWithMetrics) Metrics() Metrics {
	return Metrics{}
}
