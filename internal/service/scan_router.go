package service

import (
	"time"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/i18n"
	"github.com/guttosm/assembly-service/internal/metrics"
)

// DefaultScanCooldown absorbs barcode scanner double-reads.
const DefaultScanCooldown = 2 * time.Second

// ScanOutcome names the result of routing one scanned code.
type ScanOutcome string

const (
	// ScanAcceptedBox means the active box row moved to pending.
	ScanAcceptedBox ScanOutcome = "accepted_box"
	// ScanAcceptedProduct means a product row moved to pending.
	ScanAcceptedProduct ScanOutcome = "accepted_product"
	// ScanConfirmedBox means a mis-weighed box was acknowledged by the operator.
	ScanConfirmedBox ScanOutcome = "confirmed_box"
	// ScanRejectedBoxNotFound means no box matched while the box phase was active.
	ScanRejectedBoxNotFound ScanOutcome = "box_not_found"
	// ScanRejectedItemNotFound means no product matched in the active box.
	ScanRejectedItemNotFound ScanOutcome = "item_not_found"
	// ScanRejectedAlreadyDone means the matched row is already done.
	ScanRejectedAlreadyDone ScanOutcome = "already_done"
	// ScanRejectedWrongBox means the matched row belongs to another box.
	ScanRejectedWrongBox ScanOutcome = "wrong_box"
	// ScanRejectedBoxNotReady means the box was scanned but not weighed yet,
	// or a box row was matched outside its default status.
	ScanRejectedBoxNotReady ScanOutcome = "box_not_ready"
	// ScanRejectedCooldown means the same code arrived within the cooldown window.
	ScanRejectedCooldown ScanOutcome = "duplicate"
)

// ScanResult describes what a scan did. Rejections never mutate state; they
// only carry an operator-facing reason key.
type ScanResult struct {
	Outcome ScanOutcome `json:"outcome"`
	// Accepted is true for the two accepting outcomes.
	Accepted bool `json:"accepted"`
	// RowID is the affected (or matched-but-rejected) row, when known.
	RowID string `json:"row_id,omitempty"`
	// Reason is the i18n message key explaining a rejection.
	Reason string `json:"reason,omitempty"`
}

// ScanRouterOption configures a ScanRouter.
type ScanRouterOption func(*ScanRouter)

// ScanRouter interprets decoded barcodes against a checklist and the active
// box, issuing state transitions. Each assembly session owns one router; it
// is driven from the session's serialized event loop.
type ScanRouter struct {
	clock           Clock
	cooldown        time.Duration
	cooldownEnabled bool

	lastCode string
	lastAt   time.Time
}

// NewScanRouter creates a router using the given clock.
func NewScanRouter(clock Clock, opts ...ScanRouterOption) *ScanRouter {
	r := &ScanRouter{
		clock:           clock,
		cooldown:        DefaultScanCooldown,
		cooldownEnabled: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithScanCooldown overrides the duplicate-scan window.
func WithScanCooldown(d time.Duration) ScanRouterOption {
	return func(r *ScanRouter) {
		if d > 0 {
			r.cooldown = d
		}
	}
}

// WithoutScanCooldown disables duplicate suppression (debug/testing mode).
func WithoutScanCooldown() ScanRouterOption {
	return func(r *ScanRouter) {
		r.cooldownEnabled = false
	}
}

// Route resolves a scanned code against the checklist. The box row of the
// active box gates everything: while it is default only the box barcode is
// considered, and products become scannable only once the box is weighed
// (done). On a valid product match, any other pending row in the same box is
// reset to default so at most one row per box is ever pending.
func (r *ScanRouter) Route(items []model.ChecklistItem, activeBox int, code string) ScanResult {
	result := r.route(items, activeBox, code)
	metrics.ScanEventsTotal.WithLabelValues(string(result.Outcome)).Inc()
	return result
}

func (r *ScanRouter) route(items []model.ChecklistItem, activeBox int, code string) ScanResult {
	now := r.clock.Now()
	if r.cooldownEnabled && code == r.lastCode && now.Sub(r.lastAt) < r.cooldown {
		return ScanResult{Outcome: ScanRejectedCooldown, Reason: i18n.MsgKeyScanDuplicate}
	}
	r.lastCode = code
	r.lastAt = now

	boxIdx := boxRow(items, activeBox)
	if boxIdx == -1 {
		return ScanResult{Outcome: ScanRejectedBoxNotFound, Reason: i18n.MsgKeyScanBoxNotFound}
	}

	switch items[boxIdx].Status {
	case model.StatusDefault:
		// Box phase: only the box barcode counts until the box is scanned.
		if items[boxIdx].MatchesCode(code) {
			items[boxIdx].Status = model.StatusPending
			return ScanResult{Outcome: ScanAcceptedBox, Accepted: true, RowID: items[boxIdx].ID}
		}
		return ScanResult{Outcome: ScanRejectedBoxNotFound, Reason: i18n.MsgKeyScanBoxNotFound}

	case model.StatusDone:
		return r.routeProduct(items, activeBox, code)

	case model.StatusAwaitingConfirmation:
		// Re-scanning the box acknowledges the failed weighing; the next
		// stable reading scores the box again.
		if items[boxIdx].MatchesCode(code) {
			items[boxIdx].Status = model.StatusConfirmed
			return ScanResult{Outcome: ScanConfirmedBox, Accepted: true, RowID: items[boxIdx].ID}
		}
		return ScanResult{Outcome: ScanRejectedBoxNotReady, Reason: i18n.MsgKeyScanBoxNotReady}

	default:
		// Box scanned but not weighed yet: product scanning is not attempted.
		if items[boxIdx].MatchesCode(code) {
			return ScanResult{
				Outcome: ScanRejectedBoxNotReady,
				RowID:   items[boxIdx].ID,
				Reason:  i18n.MsgKeyScanBoxNotReady,
			}
		}
		return ScanResult{Outcome: ScanRejectedBoxNotReady, Reason: i18n.MsgKeyScanBoxNotReady}
	}
}

// routeProduct matches the code among product rows of the active box,
// barcode before SKU, and classifies every non-match.
func (r *ScanRouter) routeProduct(items []model.ChecklistItem, activeBox int, code string) ScanResult {
	match := -1
	for pass := 0; pass < 2 && match == -1; pass++ {
		for i := range items {
			if !items[i].IsBox() && items[i].BoxIndex == activeBox {
				byBarcode := items[i].Barcode != "" && items[i].Barcode == code
				bySKU := items[i].SKU != "" && items[i].SKU == code
				if (pass == 0 && byBarcode) || (pass == 1 && bySKU) {
					match = i
					break
				}
			}
		}
	}

	if match == -1 {
		// Classify the rejection: a match in another box, a box row outside
		// its default phase, or nothing at all.
		for i := range items {
			if !items[i].MatchesCode(code) {
				continue
			}
			if items[i].IsBox() {
				return ScanResult{
					Outcome: ScanRejectedBoxNotReady,
					RowID:   items[i].ID,
					Reason:  i18n.MsgKeyScanBoxNotReady,
				}
			}
			return ScanResult{
				Outcome: ScanRejectedWrongBox,
				RowID:   items[i].ID,
				Reason:  i18n.MsgKeyScanWrongBox,
			}
		}
		return ScanResult{Outcome: ScanRejectedItemNotFound, Reason: i18n.MsgKeyScanItemNotFound}
	}

	if items[match].Status == model.StatusDone || items[match].Status == model.StatusSuccess {
		// success rows have already passed weighing; the settle timer will
		// move them to done on its own.
		return ScanResult{
			Outcome: ScanRejectedAlreadyDone,
			RowID:   items[match].ID,
			Reason:  i18n.MsgKeyScanAlreadyDone,
		}
	}

	// Reset any other pending row in the box before selecting this one.
	for i := range items {
		if i != match && !items[i].IsBox() && items[i].BoxIndex == activeBox &&
			items[i].Status == model.StatusPending {
			items[i].Status = model.StatusDefault
		}
	}
	items[match].Status = model.StatusPending
	return ScanResult{Outcome: ScanAcceptedProduct, Accepted: true, RowID: items[match].ID}
}
