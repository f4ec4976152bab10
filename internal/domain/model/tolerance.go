package model

// ToleranceType selects how the cumulative product tolerance is derived.
type ToleranceType string

const (
	// TolerancePercentage derives the band from a percentage of the expected
	// cumulative weight, floored by the absolute gram value.
	TolerancePercentage ToleranceType = "percentage"
	// ToleranceAbsolute derives the band from a fixed gram allowance per
	// accumulated portion.
	ToleranceAbsolute ToleranceType = "absolute"
	// ToleranceCombined takes the larger of the percentage and per-portion terms.
	ToleranceCombined ToleranceType = "combined"
)

// ToleranceSettings governs the weight tolerance arithmetic for product rows.
//
// @Description Weight tolerance configuration
type ToleranceSettings struct {
	// Type selects the combination semantics.
	Type ToleranceType `json:"type" example:"combined"`
	// PercentageValue is the tolerance as a percentage of expected weight.
	PercentageValue float64 `json:"percentage_value" example:"1.5"`
	// AbsoluteValueGrams is the fixed gram allowance per portion.
	AbsoluteValueGrams float64 `json:"absolute_value_grams" example:"5"`
} // @name ToleranceSettings

// DefaultToleranceSettings returns the settings used when none are configured.
func DefaultToleranceSettings() ToleranceSettings {
	return ToleranceSettings{
		Type:               ToleranceCombined,
		PercentageValue:    1.5,
		AbsoluteValueGrams: 5,
	}
}
