package audit

import "time"

// Event is emitted from domain logic to capture ledger state transitions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	RecordID  uint64    `json:"record_id"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
}

// Action names a ledger transition worth auditing. Every state change
// produces exactly one event.
type Action string

const (
	ActionRecordAdded        Action = "record_added"
	ActionRecordVerified     Action = "record_verified"
	ActionVerificationDenied Action = "verification_denied"
)
