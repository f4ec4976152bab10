package model

// BoxDefinition is one entry of the box catalog: a physical box type with
// its valid portion range and weight characteristics. The catalog is
// read-only to the engine.
//
// @Description Box catalog entry
type BoxDefinition struct {
	// Marking is the printed box label, e.g. "M-24".
	Marking string `json:"marking" bson:"marking" example:"M-24"`
	// QntFrom is the minimum portion count this box is valid for.
	QntFrom int `json:"qnt_from" bson:"qnt_from" example:"15"`
	// QntTo is the maximum nominal portion count.
	QntTo int `json:"qnt_to" bson:"qnt_to" example:"25"`
	// Overflow is the number of portions beyond QntTo the box tolerates.
	Overflow int `json:"overflow" bson:"overflow" example:"2"`
	// Weight is the gross capacity reference in kilograms.
	Weight float64 `json:"weight" bson:"weight" example:"15"`
	// SelfWeight is the empty-box tare in kilograms.
	SelfWeight float64 `json:"self_weight" bson:"self_weight" example:"0.5"`
	// Barcode is the optional scannable code on the box.
	Barcode string `json:"barcode,omitempty" bson:"barcode,omitempty" example:"2000000000241"`
} // @name BoxDefinition

// Fits reports whether the portion count is within the nominal range.
func (b BoxDefinition) Fits(portions int) bool {
	return portions >= b.QntFrom && portions <= b.QntTo
}

// MaxWithOverflow returns the absolute portion ceiling including overflow.
func (b BoxDefinition) MaxWithOverflow() int {
	return b.QntTo + b.Overflow
}
