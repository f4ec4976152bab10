package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanMode_Valid(t *testing.T) {
	assert.True(t, PlanModeSpacious.Valid())
	assert.True(t, PlanModeEconomical.Valid())
	assert.False(t, PlanMode("greedy").Valid())
	assert.False(t, PlanMode("").Valid())
}

func TestNoPlan(t *testing.T) {
	plan := NoPlan(PlanModeEconomical)

	assert.Equal(t, PlanModeEconomical, plan.Mode)
	assert.False(t, plan.Feasible)
	assert.Zero(t, plan.BoxCount)
	assert.Nil(t, plan.Box)
	assert.Empty(t, plan.Details)
}

func TestAllocationResult_Infeasible(t *testing.T) {
	ok := AllocationResult{Items: []AllocatedItem{{BoxIndex: 0}}}
	assert.False(t, ok.Infeasible())

	failed := AllocationResult{
		UnallocatedPortions: 3,
		Unallocated:         []UnallocatedPortion{{Name: "Beef dumplings 500g", Quantity: 3}},
	}
	assert.True(t, failed.Infeasible())
}

func TestDefaultToleranceSettings(t *testing.T) {
	s := DefaultToleranceSettings()

	assert.Equal(t, ToleranceCombined, s.Type)
	assert.InDelta(t, 1.5, s.PercentageValue, 1e-9)
	assert.InDelta(t, 5.0, s.AbsoluteValueGrams, 1e-9)
}
