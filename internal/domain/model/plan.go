package model

// PlanMode selects the box-selection strategy.
type PlanMode string

const (
	// PlanModeSpacious prefers a single box with slack, then uniform multi-box fills.
	PlanModeSpacious PlanMode = "spacious"
	// PlanModeEconomical minimizes box count, allowing bounded overflow.
	PlanModeEconomical PlanMode = "economical"
)

// Valid reports whether the mode is one of the known strategies.
func (m PlanMode) Valid() bool {
	return m == PlanModeSpacious || m == PlanModeEconomical
}

// BoxPlanDetail describes the fill of one planned box.
type BoxPlanDetail struct {
	// BoxIndex is the 0-based position of the box in the plan.
	BoxIndex int `json:"box_index"`
	// Portions planned into this box.
	Portions int `json:"portions"`
	// OverCapacity is the number of portions beyond the nominal QntTo.
	OverCapacity int `json:"over_capacity,omitempty"`
}

// BoxPlan is the result of a box planning run.
// A plan with Feasible=false carries no usable box selection; it is a
// structured "no solution" value, never an error.
//
// @Description Box planning result
type BoxPlan struct {
	// Mode the plan was computed with.
	Mode PlanMode `json:"mode" example:"spacious"`
	// Feasible is false when no box configuration satisfies the portion count.
	Feasible bool `json:"feasible" example:"true"`
	// BoxCount is the number of boxes to use.
	BoxCount int `json:"box_count" example:"2"`
	// Box is the selected box type; nil when infeasible.
	Box *BoxDefinition `json:"box,omitempty"`
	// PortionsPerBox is the planned portion count per box.
	PortionsPerBox int `json:"portions_per_box" example:"21"`
	// TotalCapacity is BoxCount times the nominal capacity of the box.
	TotalCapacity int `json:"total_capacity" example:"50"`
	// HasOverflow is true when the allocation relies on the overflow allowance.
	HasOverflow bool `json:"has_overflow" example:"false"`
	// OverflowWarning carries an operator-facing note when HasOverflow is set.
	OverflowWarning string `json:"overflow_warning,omitempty"`
	// Details describes each planned box fill.
	Details []BoxPlanDetail `json:"details"`
} // @name BoxPlan

// NoPlan returns the structured no-solution plan for the given mode.
func NoPlan(mode PlanMode) BoxPlan {
	return BoxPlan{Mode: mode, Feasible: false, Details: []BoxPlanDetail{}}
}

// AllocatedItem is an expanded item placed (fully or partially) into one box.
type AllocatedItem struct {
	ExpandedItem
	// BoxIndex the portion of the item was placed into.
	BoxIndex int `json:"box_index"`
}

// UnallocatedPortion records a fraction of an item no box had room for.
// A non-empty unallocated list is a hard packing failure for the caller.
type UnallocatedPortion struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// AllocationResult is the output of distributing a flat item list across boxes.
//
// @Description Item distribution across planned boxes
type AllocationResult struct {
	// Items are the per-box item rows; one source item may appear in
	// several boxes with its quantity split between them.
	Items []AllocatedItem `json:"items"`
	// BoxWeights is the resulting content weight per box in kilograms.
	BoxWeights []float64 `json:"box_weights"`
	// BoxPortions is the resulting portion count per box.
	BoxPortions []int `json:"box_portions"`
	// UnallocatedPortions is the total number of portions that did not fit.
	UnallocatedPortions int `json:"unallocated_portions"`
	// Unallocated lists the items (with quantities) that did not fit.
	Unallocated []UnallocatedPortion `json:"unallocated,omitempty"`
} // @name AllocationResult

// Infeasible reports whether the allocation left portions without a box.
func (r AllocationResult) Infeasible() bool {
	return r.UnallocatedPortions > 0
}
