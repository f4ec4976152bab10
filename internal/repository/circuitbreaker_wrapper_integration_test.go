//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/assembly-service/internal/circuitbreaker"
	"github.com/guttosm/assembly-service/internal/domain/model"
)

func TestBoxesRepositoryWithCircuitBreaker_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Use shared container with unique database name
	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewBoxesRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewBoxesRepositoryWithCircuitBreaker(repo, cb)

	box := model.BoxDefinition{Marking: "M-24", QntFrom: 15, QntTo: 25, Overflow: 2, SelfWeight: 0.5}
	config, err := wrappedRepo.Create(ctx, box)
	require.NoError(t, err)
	require.NotNil(t, config)

	box.Overflow = 3
	updatedConfig, err := wrappedRepo.Update(ctx, config.ID, box, true)
	require.NoError(t, err)
	assert.NotNil(t, updatedConfig)
	assert.Equal(t, 3, updatedConfig.Box.Overflow)
	assert.Equal(t, config.Version+1, updatedConfig.Version)
}

func TestBoxesRepositoryWithCircuitBreaker_ListActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewBoxesRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewBoxesRepositoryWithCircuitBreaker(repo, cb)

	_, err := wrappedRepo.Create(ctx, model.BoxDefinition{Marking: "S-12", QntFrom: 5, QntTo: 12})
	require.NoError(t, err)
	created, err := wrappedRepo.Create(ctx, model.BoxDefinition{Marking: "L-40", QntFrom: 20, QntTo: 40})
	require.NoError(t, err)

	// Deactivated boxes drop out of the active list.
	_, err = wrappedRepo.Update(ctx, created.ID, created.Box, false)
	require.NoError(t, err)

	boxes, err := wrappedRepo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, "S-12", boxes[0].Marking)
}

func TestProductsRepositoryWithCircuitBreaker_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewProductsRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewProductsRepositoryWithCircuitBreaker(repo, cb)

	kit := model.Product{
		SKU:  "KIT-FAMILY",
		Name: "Family box",
		Set: []model.SetComponent{
			{SKU: "APPLE", Quantity: 3},
			{SKU: "OATS", Quantity: 1},
		},
	}
	require.NoError(t, wrappedRepo.Upsert(ctx, kit))

	got, err := wrappedRepo.GetBySKU(ctx, "KIT-FAMILY")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsKit())
	assert.Len(t, got.Set, 2)

	missing, err := wrappedRepo.GetBySKU(ctx, "NO-SUCH-SKU")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventsRepositoryWithCircuitBreaker_QueryBySession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewEventsRepository(db)
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewEventsRepositoryWithCircuitBreaker(repo, cb)

	events := []*EventDocument{
		{Kind: "row_transitioned", SessionID: "sess-1", RowID: "row-1", From: "default", To: "pending"},
		{Kind: "scan_rejected", SessionID: "sess-1", RowID: "row-2"},
		{Kind: "row_transitioned", SessionID: "sess-2", RowID: "row-9"},
	}
	require.NoError(t, wrappedRepo.CreateMany(ctx, events))

	got, err := wrappedRepo.Query(ctx, EventQueryOptions{SessionID: "sess-1"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	count, err := wrappedRepo.Count(ctx, EventQueryOptions{SessionID: "sess-1", Kind: "scan_rejected"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryWrappers_GetCircuitBreaker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewBoxesRepositoryWithCircuitBreaker(NewBoxesRepository(db), cb)

	returnedCB := wrappedRepo.GetCircuitBreaker()
	assert.NotNil(t, returnedCB)
	assert.Equal(t, cb, returnedCB)

	stats := returnedCB.GetStats()
	assert.Equal(t, "closed", stats.State)
}
