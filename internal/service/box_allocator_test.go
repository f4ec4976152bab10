package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

func expanded(name string, quantity int, unitWeight float64) model.ExpandedItem {
	return model.ExpandedItem{
		Name:           name,
		SKU:            name,
		Quantity:       quantity,
		UnitWeight:     unitWeight,
		ExpectedWeight: unitWeight * float64(quantity),
	}
}

func totalAllocated(result model.AllocationResult, name string) int {
	total := 0
	for _, item := range result.Items {
		if item.Name == name {
			total += item.Quantity
		}
	}
	return total
}

func TestBoxAllocator_HeavyItemSplitEvenly(t *testing.T) {
	allocator := NewBoxAllocatorService()

	// 6 heavy units over 3 boxes land 2 per box.
	result := allocator.Allocate([]model.ExpandedItem{expanded("Melon", 6, 1.2)}, 3, 10)

	require.False(t, result.Infeasible())
	assert.Equal(t, []int{2, 2, 2}, result.BoxPortions)
	for _, w := range result.BoxWeights {
		assert.InDelta(t, 2.4, w, 1e-9)
	}
}

func TestBoxAllocator_HeavyRemainderGoesToFirstBoxes(t *testing.T) {
	allocator := NewBoxAllocatorService()

	result := allocator.Allocate([]model.ExpandedItem{expanded("Melon", 7, 1.2)}, 3, 10)

	require.False(t, result.Infeasible())
	assert.Equal(t, []int{3, 2, 2}, result.BoxPortions)
}

func TestBoxAllocator_LightItemsBalanceByWeight(t *testing.T) {
	allocator := NewBoxAllocatorService()

	// The heavy item loads box 0; the light filler then prefers the lighter box.
	items := []model.ExpandedItem{
		expanded("Pumpkin", 1, 3.0),
		expanded("Herbs", 2, 0.05),
	}
	result := allocator.Allocate(items, 2, 10)

	require.False(t, result.Infeasible())
	assert.Equal(t, 1, totalAllocated(result, "Pumpkin"))
	// Both herb portions fit the empty box, which stays lighter throughout.
	for _, item := range result.Items {
		if item.Name == "Herbs" {
			assert.Equal(t, 1, item.BoxIndex)
		}
	}
}

func TestBoxAllocator_PortionCapacityRespected(t *testing.T) {
	allocator := NewBoxAllocatorService()

	result := allocator.Allocate([]model.ExpandedItem{expanded("Roll", 7, 0.1)}, 2, 3)

	for i, portions := range result.BoxPortions {
		assert.LessOrEqual(t, portions, 3, "box %d over portion capacity", i)
	}
	assert.Equal(t, 6, totalAllocated(result, "Roll"))
	assert.Equal(t, 1, result.UnallocatedPortions)
	require.Len(t, result.Unallocated, 1)
	assert.Equal(t, "Roll", result.Unallocated[0].Name)
	assert.True(t, result.Infeasible())
}

func TestBoxAllocator_WeightCeilingRespected(t *testing.T) {
	allocator := NewBoxAllocatorService(WithMaxBoxWeight(5.0))

	// 5 units of 2kg against two 5kg boxes: only 2 units fit per box.
	result := allocator.Allocate([]model.ExpandedItem{expanded("Crate", 5, 2.0)}, 2, 10)

	for i, w := range result.BoxWeights {
		assert.LessOrEqual(t, w, 5.0+weightEpsilon, "box %d over weight ceiling", i)
	}
	assert.Equal(t, 4, totalAllocated(result, "Crate"))
	assert.Equal(t, 1, result.UnallocatedPortions)
}

func TestBoxAllocator_ConservationAcrossBoxes(t *testing.T) {
	allocator := NewBoxAllocatorService()

	items := []model.ExpandedItem{
		expanded("Melon", 5, 1.1),
		expanded("Bread", 8, 0.5),
		expanded("Herbs", 3, 0.05),
	}
	result := allocator.Allocate(items, 3, 6)

	for _, item := range items {
		got := totalAllocated(result, item.Name)
		for _, u := range result.Unallocated {
			if u.Name == item.Name {
				got += u.Quantity
			}
		}
		assert.Equal(t, item.Quantity, got, "portions lost for %s", item.Name)
	}
}

func TestBoxAllocator_NoBoxesMarksEverythingUnallocated(t *testing.T) {
	allocator := NewBoxAllocatorService()

	result := allocator.Allocate([]model.ExpandedItem{expanded("Bread", 4, 0.5)}, 0, 0)

	assert.True(t, result.Infeasible())
	assert.Empty(t, result.Items)
	assert.Equal(t, 4, result.UnallocatedPortions)
}
