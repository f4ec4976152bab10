package service

import (
	"math"
	"time"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

const (
	// DefaultSettleDelay is how long a success row rests before becoming done.
	DefaultSettleDelay = 1500 * time.Millisecond
	// DefaultRetryDelay is how long an error row rests before a re-weigh is allowed.
	DefaultRetryDelay = 2 * time.Second

	// boxTolerancePercent is the relative tolerance for box tare weighing.
	boxTolerancePercent = 0.10
	// boxToleranceFloorKg is the absolute tolerance floor for box tare weighing.
	boxToleranceFloorKg = 0.010
)

// CalcBoxTolerance returns the tolerance band for weighing a box:
// 10% of the expected weight, but never below 10 grams.
func CalcBoxTolerance(expectedWeight float64) float64 {
	tolerance := expectedWeight * boxTolerancePercent
	if tolerance < boxToleranceFloorKg {
		tolerance = boxToleranceFloorKg
	}
	return tolerance
}

// CalcProductTolerance returns the cumulative tolerance band for a product
// weighing, from the expected cumulative weight, the portions accumulated on
// the scale so far, and the configured settings.
func CalcProductTolerance(expectedWeight float64, portions int, settings model.ToleranceSettings) float64 {
	percentTerm := expectedWeight * settings.PercentageValue / 100
	floorKg := settings.AbsoluteValueGrams / 1000
	perPortionTerm := floorKg * float64(portions)

	switch settings.Type {
	case model.TolerancePercentage:
		if percentTerm < floorKg {
			return floorKg
		}
		return percentTerm
	case model.ToleranceAbsolute:
		return perPortionTerm
	default: // combined
		if percentTerm > perPortionTerm {
			return percentTerm
		}
		return perPortionTerm
	}
}

// WeightCheck is the verdict on one validated weight reading.
type WeightCheck struct {
	// RowID is the row under verification; empty when no row is active.
	RowID string `json:"row_id,omitempty"`
	// Expected is the expected cumulative weight in kilograms.
	Expected float64 `json:"expected"`
	// Tolerance is the half-width of the accepted band in kilograms.
	Tolerance float64 `json:"tolerance"`
	// Measured is the reading that was checked.
	Measured float64 `json:"measured"`
	// Valid is true when the reading lies inside the band.
	Valid bool `json:"valid"`
	// Ignored is true when nothing was checked: no active row, or a reading
	// of exactly zero (scale not settled yet).
	Ignored bool `json:"ignored"`
}

// WeightValidator scores validated scale readings against the expected
// cumulative weight of the row currently under verification.
type WeightValidator struct {
	settings model.ToleranceSettings
}

// NewWeightValidator creates a validator with the given tolerance settings.
func NewWeightValidator(settings model.ToleranceSettings) *WeightValidator {
	if !validToleranceType(settings.Type) {
		settings = model.DefaultToleranceSettings()
	}
	return &WeightValidator{settings: settings}
}

func validToleranceType(t model.ToleranceType) bool {
	return t == model.TolerancePercentage || t == model.ToleranceAbsolute || t == model.ToleranceCombined
}

// Check scores a measured weight against the active row of the given box.
// A zero reading is treated as "not yet settled" and ignored, never scored.
func (v *WeightValidator) Check(items []model.ChecklistItem, boxIndex int, measured float64) WeightCheck {
	idx := activeRow(items, boxIndex)
	if idx == -1 {
		return WeightCheck{Ignored: true, Measured: measured}
	}
	row := items[idx]

	expected, portions := expectedCumulative(items, boxIndex, row)

	var tolerance float64
	if row.IsBox() {
		tolerance = CalcBoxTolerance(expected)
	} else {
		tolerance = CalcProductTolerance(expected, portions, v.settings)
	}

	check := WeightCheck{
		RowID:     row.ID,
		Expected:  expected,
		Tolerance: tolerance,
		Measured:  measured,
	}
	if measured == 0 {
		check.Ignored = true
		return check
	}
	check.Valid = math.Abs(measured-expected) <= tolerance
	return check
}

// expectedCumulative computes the weight the scale should show with the row
// under test on it: the box tare (once the box row passed), plus every done
// product row in the box, plus the row under test itself. It also returns
// the portion count accumulated, including the row under test.
func expectedCumulative(items []model.ChecklistItem, boxIndex int, row model.ChecklistItem) (float64, int) {
	expected := 0.0
	portions := 0

	for i := range items {
		if items[i].BoxIndex != boxIndex {
			continue
		}
		if items[i].IsBox() {
			if items[i].Status == model.StatusDone || items[i].Status == model.StatusSuccess {
				expected += items[i].ExpectedWeight
			}
			continue
		}
		if items[i].Status == model.StatusDone {
			expected += items[i].ExpectedWeight
			portions += items[i].Quantity
		}
	}

	expected += row.ExpectedWeight
	if !row.IsBox() {
		portions += row.Quantity
	}
	return expected, portions
}
