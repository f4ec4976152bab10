// Package model defines the core domain entities for the assembly service.
package model

// ItemType distinguishes the two kinds of checklist rows.
type ItemType string

const (
	// ItemTypeBox is a physical shipping box row.
	ItemTypeBox ItemType = "box"
	// ItemTypeProduct is a product (or partial product allocation) row.
	ItemTypeProduct ItemType = "product"
)

// Status represents the verification state of a checklist row.
//
// Product rows move default -> pending -> success -> done, with an
// error side branch (pending -> error -> pending) for failed weighings.
// Box rows additionally use awaiting_confirmation/confirmed while a
// mis-weighed box is re-checked. done is terminal for both types.
type Status string

const (
	// StatusDefault is the initial state: the row has not been scanned yet.
	StatusDefault Status = "default"
	// StatusPending means the row was scanned and is waiting for a weight check.
	StatusPending Status = "pending"
	// StatusSuccess means the weight check passed; the settle timer is running.
	StatusSuccess Status = "success"
	// StatusError means the last weight reading was out of tolerance.
	StatusError Status = "error"
	// StatusDone is the terminal state; the row rejects further transitions.
	StatusDone Status = "done"
	// StatusAwaitingConfirmation is a box that failed weighing and awaits a re-weigh.
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	// StatusConfirmed is a box whose failed weighing the operator acknowledged
	// by re-scanning it; the next stable reading scores it again.
	StatusConfirmed Status = "confirmed"
)

// productTransitions is the allowed transition set for product rows.
// pending -> default happens when another row in the same box is scanned.
var productTransitions = map[Status][]Status{
	StatusDefault: {StatusPending},
	StatusPending: {StatusSuccess, StatusError, StatusDefault},
	StatusSuccess: {StatusDone},
	StatusError:   {StatusPending},
	StatusDone:    {},
}

// boxTransitions is the allowed transition set for box rows.
var boxTransitions = map[Status][]Status{
	StatusDefault:              {StatusPending},
	StatusPending:              {StatusSuccess, StatusError},
	StatusError:                {StatusAwaitingConfirmation, StatusPending},
	StatusAwaitingConfirmation: {StatusSuccess, StatusError, StatusConfirmed},
	StatusConfirmed:            {StatusSuccess},
	StatusSuccess:              {StatusDone},
	StatusDone:                 {},
}

// CanTransition reports whether a row of the given type may move from s to target.
func (s Status) CanTransition(target Status, itemType ItemType) bool {
	table := productTransitions
	if itemType == ItemTypeBox {
		table = boxTransitions
	}
	for _, next := range table[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusDone
}

// ChecklistItem is one row the packing operator interacts with: either a
// shipping box or a (possibly partial) product allocation inside a box.
//
// @Description One row of an assembly session checklist
type ChecklistItem struct {
	// ID is the session-stable row identifier.
	ID string `json:"id" example:"4f9d04f0-2c8e-4bb1-9a67-5b1b13c0a1d2"`
	// Type is "box" or "product".
	Type ItemType `json:"type" example:"product"`
	// Name is the display name of the box marking or product.
	Name string `json:"name" example:"Beef dumplings 500g"`
	// SKU is the product article; empty for box rows.
	SKU string `json:"sku,omitempty" example:"DUMP-500"`
	// Barcode is the scannable code; optional for box rows.
	Barcode string `json:"barcode,omitempty" example:"4600000000017"`
	// Quantity is the number of portions this row represents.
	Quantity int `json:"quantity" example:"3"`
	// ExpectedWeight is the weight in kilograms this row should add on the scale.
	ExpectedWeight float64 `json:"expected_weight" example:"0.99"`
	// Status is the verification state of the row.
	Status Status `json:"status" example:"default"`
	// BoxIndex identifies the physical box this row belongs to (0-based).
	BoxIndex int `json:"box_index" example:"0"`
	// ManualOrder is an optional operator-assigned sort priority (lower first).
	ManualOrder int `json:"manual_order,omitempty" example:"10"`
	// BoxSettings carries the originating catalog record for box rows.
	BoxSettings *BoxDefinition `json:"box_settings,omitempty"`
	// PortionsPerBox is the planned portion capacity for box rows.
	PortionsPerBox int `json:"portions_per_box,omitempty" example:"24"`
} // @name ChecklistItem

// IsBox reports whether the row is a box row.
func (c ChecklistItem) IsBox() bool {
	return c.Type == ItemTypeBox
}

// MatchesCode reports whether the scanned code matches this row.
// Barcode is checked before SKU, per the scan resolution order.
func (c ChecklistItem) MatchesCode(code string) bool {
	if code == "" {
		return false
	}
	if c.Barcode != "" && c.Barcode == code {
		return true
	}
	return c.Type == ItemTypeProduct && c.SKU != "" && c.SKU == code
}
