package requests

import (
	"time"
)

const (
	FormEventValueCommitted = "value_committed"
	FormEventRecordAdded    = "record_added"
	FormEventRecordRemoved  = "record_removed"
	FormEventAnswersSaved   = "answers_saved"
)

// FormEvent is the message published for every write into a session's answer document.
type FormEvent struct {
	Type       string      `json:"type"`
	SessionID  string      `json:"session_id"`
	ControlID  string      `json:"control_id,omitempty"`
	UnitID     string      `json:"unit_id,omitempty"`
	RecordID   string      `json:"record_id,omitempty"`
	Path       string      `json:"path,omitempty"`
	Value      interface{} `json:"value,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
