//go:build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/assembly-service/config"
	"github.com/guttosm/assembly-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func databaseTestConfig(uri, dbName string) config.Config {
	cfg := config.Load()
	cfg.Database = config.DatabaseConfig{
		URI:                            uri,
		DatabaseName:                   dbName,
		EventsTTL:                      30 * 24 * time.Hour,
		Enabled:                        true,
		CircuitBreakerFailureThreshold: 5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,
	}
	return cfg
}

func TestInitializeDatabase_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Use shared container with unique database names for each subtest
	uri := getSharedContainerURI()

	t.Run("initialize with enabled database", func(t *testing.T) {
		t.Parallel()
		cfg := databaseTestConfig(uri, sanitizeDBNameForApp(t.Name()))

		components := InitializeDatabase(cfg)
		require.NotNil(t, components)
		defer components.Close(ctx)

		assert.NotNil(t, components.BoxService)
		assert.NotNil(t, components.ProductResolver)
		assert.NotNil(t, components.EventLog)
		assert.NotNil(t, components.EventWriter)
		assert.NotNil(t, components.BoxesCircuitBreaker)
		assert.NotNil(t, components.ProductsCircuitBreaker)
		assert.NotNil(t, components.EventsCircuitBreaker)
	})

	t.Run("initialize with disabled database", func(t *testing.T) {
		t.Parallel()
		cfg := config.Load()
		cfg.Database.Enabled = false

		assert.Nil(t, InitializeDatabase(cfg))
	})

	t.Run("default box catalog seeding", func(t *testing.T) {
		t.Parallel()
		cfg := databaseTestConfig(uri, sanitizeDBNameForApp(t.Name()))

		components := InitializeDatabase(cfg)
		require.NotNil(t, components)
		defer components.Close(ctx)

		active, err := components.BoxService.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, len(service.DefaultBoxes()))

		markings := make([]string, 0, len(active))
		for _, box := range active {
			markings = append(markings, box.Marking)
		}
		assert.ElementsMatch(t, []string{"S-10", "M-25", "L-40"}, markings)
	})

	t.Run("seeding is idempotent", func(t *testing.T) {
		t.Parallel()
		dbName := sanitizeDBNameForApp(t.Name())

		first := InitializeDatabase(databaseTestConfig(uri, dbName))
		require.NotNil(t, first)
		first.Close(ctx)

		second := InitializeDatabase(databaseTestConfig(uri, dbName))
		require.NotNil(t, second)
		defer second.Close(ctx)

		active, err := second.BoxService.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, active, len(service.DefaultBoxes()))
	})

	t.Run("circuit breaker integration", func(t *testing.T) {
		t.Parallel()
		cfg := databaseTestConfig(uri, sanitizeDBNameForApp(t.Name()))
		cfg.Database.CircuitBreakerFailureThreshold = 2
		cfg.Database.CircuitBreakerSuccessThreshold = 1
		cfg.Database.CircuitBreakerTimeout = 100 * time.Millisecond

		components := InitializeDatabase(cfg)
		require.NotNil(t, components)
		defer components.Close(ctx)

		boxesStats := components.BoxesCircuitBreaker.GetStats()
		assert.Equal(t, "closed", boxesStats.State)
		assert.True(t, boxesStats.IsHealthy)

		eventsStats := components.EventsCircuitBreaker.GetStats()
		assert.Equal(t, "closed", eventsStats.State)
		assert.True(t, eventsStats.IsHealthy)
	})
}
