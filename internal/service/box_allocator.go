package service

import (
	"math"
	"sort"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

const (
	// DefaultHeavyUnitThreshold is the per-unit weight (kg) above which an item
	// is pre-split evenly across all boxes.
	DefaultHeavyUnitThreshold = 0.4
	// DefaultMaxBoxWeight is the hard total-weight ceiling (kg) per box.
	DefaultMaxBoxWeight = 15.0

	// weightEpsilon absorbs float drift in weight budget comparisons.
	weightEpsilon = 1e-9
)

// BoxAllocator distributes expanded items across planned boxes under portion
// and weight limits, balancing load.
type BoxAllocator interface {
	Allocate(items []model.ExpandedItem, boxCount, portionsPerBox int) model.AllocationResult
}

// AllocatorOption configures a BoxAllocatorService.
type AllocatorOption func(*BoxAllocatorService)

// BoxAllocatorService implements BoxAllocator.
type BoxAllocatorService struct {
	heavyThreshold float64
	maxBoxWeight   float64
}

// NewBoxAllocatorService creates a new BoxAllocatorService.
func NewBoxAllocatorService(opts ...AllocatorOption) *BoxAllocatorService {
	s := &BoxAllocatorService{
		heavyThreshold: DefaultHeavyUnitThreshold,
		maxBoxWeight:   DefaultMaxBoxWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithHeavyUnitThreshold overrides the heavy-item pre-split threshold.
func WithHeavyUnitThreshold(kg float64) AllocatorOption {
	return func(s *BoxAllocatorService) {
		if kg > 0 {
			s.heavyThreshold = kg
		}
	}
}

// WithMaxBoxWeight overrides the per-box weight ceiling.
func WithMaxBoxWeight(kg float64) AllocatorOption {
	return func(s *BoxAllocatorService) {
		if kg > 0 {
			s.maxBoxWeight = kg
		}
	}
}

// allocState tracks the running fill of the boxes during one allocation.
type allocState struct {
	portions []int
	weights  []float64
	capacity int
	maxW     float64
}

// roomFor returns how many units of the given unit weight box i still takes.
func (st *allocState) roomFor(i int, unitWeight float64) int {
	free := st.capacity - st.portions[i]
	if free <= 0 {
		return 0
	}
	if unitWeight <= 0 {
		return free
	}
	budget := st.maxW - st.weights[i] + weightEpsilon
	if budget <= 0 {
		return 0
	}
	byWeight := int(math.Floor(budget / unitWeight))
	if byWeight < free {
		return byWeight
	}
	return free
}

func (st *allocState) place(i int, unitWeight float64, quantity int) {
	st.portions[i] += quantity
	st.weights[i] += unitWeight * float64(quantity)
}

// Allocate distributes the flat item list across boxCount boxes. Heavy items
// (per-unit weight above the threshold, quantity at least boxCount) are first
// split as evenly as possible; everything else is placed greedily into the
// lightest box with room. Portions no box can take are returned as
// unallocated data, never silently dropped or placed over limits.
func (s *BoxAllocatorService) Allocate(items []model.ExpandedItem, boxCount, portionsPerBox int) model.AllocationResult {
	result := model.AllocationResult{
		Items:       []model.AllocatedItem{},
		BoxWeights:  make([]float64, boxCount),
		BoxPortions: make([]int, boxCount),
	}
	if boxCount <= 0 || portionsPerBox <= 0 {
		for _, item := range items {
			result.UnallocatedPortions += item.Quantity
			result.Unallocated = append(result.Unallocated, model.UnallocatedPortion{
				Name: item.Name, SKU: item.SKU, Quantity: item.Quantity,
			})
		}
		return result
	}

	st := &allocState{
		portions: result.BoxPortions,
		weights:  result.BoxWeights,
		capacity: portionsPerBox,
		maxW:     s.maxBoxWeight,
	}

	// Heavy items placed first.
	sorted := make([]model.ExpandedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].UnitWeight != sorted[j].UnitWeight {
			return sorted[i].UnitWeight > sorted[j].UnitWeight
		}
		return sorted[i].Name < sorted[j].Name
	})

	for _, item := range sorted {
		placed := make([]int, boxCount)
		remaining := item.Quantity

		if item.UnitWeight > s.heavyThreshold && item.Quantity >= boxCount {
			remaining = s.evenSplit(st, item, placed, remaining)
		}
		remaining = s.greedyFill(st, item, placed, remaining)

		for boxIndex, quantity := range placed {
			if quantity == 0 {
				continue
			}
			row := item
			row.Quantity = quantity
			row.ExpectedWeight = row.UnitWeight * float64(quantity)
			result.Items = append(result.Items, model.AllocatedItem{ExpandedItem: row, BoxIndex: boxIndex})
		}

		if remaining > 0 {
			result.UnallocatedPortions += remaining
			result.Unallocated = append(result.Unallocated, model.UnallocatedPortion{
				Name: item.Name, SKU: item.SKU, Quantity: remaining,
			})
		}
	}

	return result
}

// evenSplit distributes a heavy item as evenly as possible across all boxes,
// remainder to the first boxes, bounded per box by portion and weight limits.
func (s *BoxAllocatorService) evenSplit(st *allocState, item model.ExpandedItem, placed []int, remaining int) int {
	boxCount := len(placed)
	base := item.Quantity / boxCount
	extra := item.Quantity % boxCount

	for i := 0; i < boxCount && remaining > 0; i++ {
		want := base
		if i < extra {
			want++
		}
		if room := st.roomFor(i, item.UnitWeight); want > room {
			want = room
		}
		if want > remaining {
			want = remaining
		}
		if want <= 0 {
			continue
		}
		st.place(i, item.UnitWeight, want)
		placed[i] += want
		remaining -= want
	}
	return remaining
}

// greedyFill repeatedly picks the lightest box with free portion and weight
// budget and assigns as much of the remainder as that box allows.
func (s *BoxAllocatorService) greedyFill(st *allocState, item model.ExpandedItem, placed []int, remaining int) int {
	for remaining > 0 {
		target := -1
		for i := range placed {
			if st.roomFor(i, item.UnitWeight) <= 0 {
				continue
			}
			if target == -1 || st.weights[i] < st.weights[target] {
				target = i
			}
		}
		if target == -1 {
			break
		}

		quantity := st.roomFor(target, item.UnitWeight)
		if quantity > remaining {
			quantity = remaining
		}
		st.place(target, item.UnitWeight, quantity)
		placed[target] += quantity
		remaining -= quantity
	}
	return remaining
}
