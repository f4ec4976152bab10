package model

import "time"

// EventKind classifies a notification event emitted by the engine.
type EventKind string

const (
	// EventRowTransitioned is emitted when a checklist row changes status.
	EventRowTransitioned EventKind = "row_transitioned"
	// EventScanRejected is emitted when a scan is refused without state change.
	EventScanRejected EventKind = "scan_rejected"
	// EventWeightRejected is emitted when a reading falls outside the tolerance band.
	EventWeightRejected EventKind = "weight_rejected"
	// EventPackingInfeasible is emitted when planning or allocation has no solution.
	EventPackingInfeasible EventKind = "packing_infeasible"
	// EventSessionCompleted is emitted once every row has reached done.
	EventSessionCompleted EventKind = "session_completed"
)

// Event is a discrete notification for presentation layers. The engine only
// emits these; rendering (toast, sound) is an external subscriber's concern.
//
// @Description Engine notification event
type Event struct {
	Kind      EventKind `json:"kind" example:"row_transitioned"`
	SessionID string    `json:"session_id"`
	RowID     string    `json:"row_id,omitempty"`
	// From and To carry the statuses for row_transitioned events.
	From Status `json:"from,omitempty"`
	To   Status `json:"to,omitempty"`
	// Reason is a message key describing rejections (see i18n keys).
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
} // @name Event

// EventQueryOptions filters persisted events when reading them back.
type EventQueryOptions struct {
	SessionID string     `json:"session_id,omitempty"`
	Kind      EventKind  `json:"kind,omitempty"`
	RowID     string     `json:"row_id,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Skip      int        `json:"skip,omitempty"`
}
