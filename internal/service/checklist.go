package service

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

// ErrRowNotFound is returned when a checklist row id does not exist.
var ErrRowNotFound = errors.New("checklist row not found")

// BuildChecklist constructs the initial checklist for a session: one box row
// per planned box followed by the allocated product rows. Every row starts
// in the default status and keeps its id for the whole session.
func BuildChecklist(plan model.BoxPlan, allocation model.AllocationResult) []model.ChecklistItem {
	items := make([]model.ChecklistItem, 0, plan.BoxCount+len(allocation.Items))

	for _, detail := range plan.Details {
		row := model.ChecklistItem{
			ID:             uuid.NewString(),
			Type:           model.ItemTypeBox,
			Status:         model.StatusDefault,
			BoxIndex:       detail.BoxIndex,
			Quantity:       detail.Portions,
			PortionsPerBox: detail.Portions,
		}
		if plan.Box != nil {
			row.Name = plan.Box.Marking
			row.Barcode = plan.Box.Barcode
			row.ExpectedWeight = plan.Box.SelfWeight
			row.BoxSettings = plan.Box
		}
		items = append(items, row)
	}

	for _, allocated := range allocation.Items {
		items = append(items, model.ChecklistItem{
			ID:             uuid.NewString(),
			Type:           model.ItemTypeProduct,
			Status:         model.StatusDefault,
			Name:           allocated.Name,
			SKU:            allocated.SKU,
			Barcode:        allocated.Barcode,
			Quantity:       allocated.Quantity,
			ExpectedWeight: allocated.ExpectedWeight,
			ManualOrder:    allocated.ManualOrder,
			BoxIndex:       allocated.BoxIndex,
		})
	}

	return items
}

// SingleBoxAllocation wraps expanded items into an allocation that places
// everything into box 0. Used when the plan needs only one box and the
// balancing allocator does not run.
func SingleBoxAllocation(items map[string]model.ExpandedItem) model.AllocationResult {
	result := model.AllocationResult{
		Items:       make([]model.AllocatedItem, 0, len(items)),
		BoxWeights:  make([]float64, 1),
		BoxPortions: make([]int, 1),
	}
	for _, item := range items {
		result.Items = append(result.Items, model.AllocatedItem{ExpandedItem: item, BoxIndex: 0})
		result.BoxWeights[0] += item.ExpectedWeight
		result.BoxPortions[0] += item.Quantity
	}
	return result
}

// checklistSnapshot is one immutable version of the session checklist.
type checklistSnapshot struct {
	version uint64
	items   []model.ChecklistItem
}

// ChecklistStore holds the session checklist behind a versioned snapshot.
// Every mutation is a whole-array compare-and-swap: readers always observe a
// consistent version, and two events racing in the same tick can never
// interleave partial updates.
type ChecklistStore struct {
	current atomic.Pointer[checklistSnapshot]
}

// NewChecklistStore creates a store seeded with the initial checklist.
func NewChecklistStore(items []model.ChecklistItem) *ChecklistStore {
	s := &ChecklistStore{}
	s.current.Store(&checklistSnapshot{version: 1, items: items})
	return s
}

// Snapshot returns a copy of the current checklist and its version.
func (s *ChecklistStore) Snapshot() ([]model.ChecklistItem, uint64) {
	snap := s.current.Load()
	items := make([]model.ChecklistItem, len(snap.items))
	copy(items, snap.items)
	return items, snap.version
}

// Update applies fn to a copy of the current checklist and swaps it in
// atomically. fn may return an error to abort without changing state; on
// version contention the whole read-compute-swap step is retried.
func (s *ChecklistStore) Update(fn func(items []model.ChecklistItem) error) error {
	for {
		snap := s.current.Load()
		items := make([]model.ChecklistItem, len(snap.items))
		copy(items, snap.items)

		if err := fn(items); err != nil {
			return err
		}

		next := &checklistSnapshot{version: snap.version + 1, items: items}
		if s.current.CompareAndSwap(snap, next) {
			return nil
		}
	}
}

// rowByID returns the index of the row with the given id, or -1.
func rowByID(items []model.ChecklistItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// boxRow returns the index of the box row for the given box, or -1.
func boxRow(items []model.ChecklistItem, boxIndex int) int {
	for i := range items {
		if items[i].IsBox() && items[i].BoxIndex == boxIndex {
			return i
		}
	}
	return -1
}

// activeRow returns the index of the row currently under verification in the
// box (pending, awaiting confirmation or confirmed), or -1.
func activeRow(items []model.ChecklistItem, boxIndex int) int {
	for i := range items {
		if items[i].BoxIndex != boxIndex {
			continue
		}
		switch items[i].Status {
		case model.StatusPending, model.StatusAwaitingConfirmation, model.StatusConfirmed:
			return i
		}
	}
	return -1
}

// nextDefaultRow returns the index of the row to auto-select next in the box:
// the lowest default row by (manualOrder, type, name), or -1 when none remain.
func nextDefaultRow(items []model.ChecklistItem, boxIndex int) int {
	best := -1
	for i := range items {
		if items[i].BoxIndex != boxIndex || items[i].Status != model.StatusDefault {
			continue
		}
		if best == -1 || rowLess(items[i], items[best]) {
			best = i
		}
	}
	return best
}

// rowLess orders rows by (manualOrder, type, name).
func rowLess(a, b model.ChecklistItem) bool {
	if a.ManualOrder != b.ManualOrder {
		return a.ManualOrder < b.ManualOrder
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.Name < b.Name
}

// allDone reports whether every row of the checklist has reached done.
func allDone(items []model.ChecklistItem) bool {
	for i := range items {
		if items[i].Status != model.StatusDone {
			return false
		}
	}
	return len(items) > 0
}
