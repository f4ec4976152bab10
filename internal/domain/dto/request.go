// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"time"

	"github.com/guttosm/assembly-service/internal/domain/model"
)

// CreateSessionRequest represents the JSON request body for creating an
// assembly session from raw order lines.
//
// Lines is required and every line must carry a SKU and a positive quantity.
// Mode is optional - if not provided, the spacious strategy is used.
//
// @Description Request to create an assembly session for an order
// @Example {"lines": [{"sku": "KIT-FAMILY", "quantity": 2}], "mode": "economical"}
type CreateSessionRequest struct {
	// Lines are the raw order positions to assemble.
	Lines []model.OrderLine `json:"lines" binding:"required,min=1,dive"`
	// Mode selects the box planning strategy ("spacious" or "economical").
	Mode string `json:"mode,omitempty" example:"spacious"`
} // @name CreateSessionRequest

// ScanRequest represents the JSON request body for a decoded barcode event.
//
// @Description One decoded barcode from the scanner
type ScanRequest struct {
	// Code is the decoded barcode or SKU.
	Code string `json:"code" binding:"required" example:"2000000000241"`
} // @name ScanRequest

// WeightSampleRequest represents the JSON request body for one raw scale
// reading pushed by the weight bridge.
//
// @Description One raw scale frame
type WeightSampleRequest struct {
	// Weight is the decoded numeric reading in kilograms.
	Weight float64 `json:"weight" example:"1.495"`
	// Raw is the frame as received, including the trailing status suffix.
	Raw string `json:"raw" binding:"required" example:"1.495ST"`
	// Connected reports whether the scale link is up.
	Connected bool `json:"connected" example:"true"`
	// Timestamp is when the frame was captured; defaults to now.
	Timestamp *time.Time `json:"timestamp,omitempty"`
} // @name WeightSampleRequest

// SetActiveBoxRequest selects the box the operator is working on.
//
// @Description Active box selection
type SetActiveBoxRequest struct {
	// BoxIndex is the 0-based index of the planned box.
	BoxIndex *int `json:"box_index" binding:"required" example:"1"`
} // @name SetActiveBoxRequest

// PlanBoxesRequest represents the JSON request body for the plan-only endpoint.
//
// @Description Request to plan boxes for a portion count
// @Example {"portions": 42, "mode": "economical"}
type PlanBoxesRequest struct {
	// Portions is the total portion count to pack. Must be greater than 0.
	Portions int `json:"portions" binding:"required,gt=0" example:"42" minimum:"1"`
	// Mode selects the planning strategy ("spacious" or "economical").
	Mode string `json:"mode,omitempty" example:"spacious"`
} // @name PlanBoxesRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrInvalidPortions is returned when portions is invalid.
	ErrInvalidPortions = &ValidationError{
		Field:   "portions",
		Message: "must be a positive integer",
	}
	// ErrInvalidMode is returned when the plan mode is unknown.
	ErrInvalidMode = &ValidationError{
		Field:   "mode",
		Message: "must be \"spacious\" or \"economical\"",
	}
	// ErrEmptyOrder is returned when an order has no lines.
	ErrEmptyOrder = &ValidationError{
		Field:   "lines",
		Message: "must contain at least one order line",
	}
)

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// planMode resolves the requested mode, defaulting to spacious.
// Returns ErrInvalidMode for an unknown mode string.
func planMode(mode string) (model.PlanMode, error) {
	if mode == "" {
		return model.PlanModeSpacious, nil
	}
	m := model.PlanMode(mode)
	if !m.Valid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

// Validate performs custom validation on the request.
// Returns the resolved plan mode, or an error if validation fails.
func (r *CreateSessionRequest) Validate() (model.PlanMode, error) {
	if len(r.Lines) == 0 {
		return "", ErrEmptyOrder
	}
	return planMode(r.Mode)
}

// Validate performs custom validation on the request.
// Returns the resolved plan mode, or an error if validation fails.
func (r *PlanBoxesRequest) Validate() (model.PlanMode, error) {
	if r.Portions <= 0 {
		return "", ErrInvalidPortions
	}
	return planMode(r.Mode)
}

// BoxDefinitionRequest represents the JSON request body for creating or
// updating a box catalog entry.
type BoxDefinitionRequest struct {
	// Marking is the printed box label.
	Marking string `json:"marking" binding:"required" example:"M-24"`
	// QntFrom is the minimum portion count this box is valid for.
	QntFrom int `json:"qnt_from" binding:"required,gt=0" example:"15"`
	// QntTo is the maximum nominal portion count.
	QntTo int `json:"qnt_to" binding:"required,gt=0" example:"25"`
	// Overflow is the number of portions beyond QntTo the box tolerates.
	Overflow int `json:"overflow" example:"2"`
	// Weight is the gross capacity reference in kilograms.
	Weight float64 `json:"weight" example:"15"`
	// SelfWeight is the empty-box tare in kilograms.
	SelfWeight float64 `json:"self_weight" example:"0.5"`
	// Barcode is the optional scannable code on the box.
	Barcode string `json:"barcode,omitempty" example:"2000000000241"`
	// Active marks the entry as usable by the planner. Defaults to true on create.
	Active *bool `json:"active,omitempty"`
} // @name BoxDefinitionRequest

// ErrInvalidBoxRange is returned when qnt_from exceeds qnt_to.
var ErrInvalidBoxRange = &ValidationError{
	Field:   "qnt_from",
	Message: "must not exceed qnt_to",
}

// Validate performs custom validation on the request.
func (r *BoxDefinitionRequest) Validate() error {
	if r.QntFrom > r.QntTo {
		return ErrInvalidBoxRange
	}
	return nil
}

// ToModel converts the request to a box definition.
func (r *BoxDefinitionRequest) ToModel() model.BoxDefinition {
	return model.BoxDefinition{
		Marking:    r.Marking,
		QntFrom:    r.QntFrom,
		QntTo:      r.QntTo,
		Overflow:   r.Overflow,
		Weight:     r.Weight,
		SelfWeight: r.SelfWeight,
		Barcode:    r.Barcode,
	}
}
