// Package i18n provides internationalization support for the assembly service.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyPackingInfeasible indicates no box configuration fits the order.
	ErrKeyPackingInfeasible = "error.packing_infeasible"
	// ErrKeyUnallocatedPortions indicates portions no box had room for.
	ErrKeyUnallocatedPortions = "error.unallocated_portions"
)

// Operator notification message keys.
const (
	// MsgKeyScanDuplicate indicates a double-read absorbed by the cooldown.
	MsgKeyScanDuplicate = "scan.duplicate"
	// MsgKeyScanBoxNotFound indicates no box matched the scanned code.
	MsgKeyScanBoxNotFound = "scan.box_not_found"
	// MsgKeyScanItemNotFound indicates no product matched in the active box.
	MsgKeyScanItemNotFound = "scan.item_not_found"
	// MsgKeyScanAlreadyDone indicates the matched row is already verified.
	MsgKeyScanAlreadyDone = "scan.already_done"
	// MsgKeyScanWrongBox indicates the matched item belongs to another box.
	MsgKeyScanWrongBox = "scan.wrong_box"
	// MsgKeyScanBoxNotReady indicates the box has not been weighed yet.
	MsgKeyScanBoxNotReady = "scan.box_not_ready"
	// MsgKeyWeightOutOfTolerance indicates a reading outside the tolerance band.
	MsgKeyWeightOutOfTolerance = "weight.out_of_tolerance"
	// MsgKeySessionCompleted indicates every checklist row reached done.
	MsgKeySessionCompleted = "session.completed"
)
