package models

import "time"

// MailRecord is one classified inbound message. Records are append-only:
// once written to the mail log they are never mutated or removed.
type MailRecord struct {
	Subject     string    `json:"subject"`
	UpdateCount *int      `json:"update_count,omitempty"`
	HasWarning  bool      `json:"has_warning"`
	HasError    bool      `json:"has_error"`
	Snippet     string    `json:"snippet"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Flagged reports whether the record should trigger a notification.
func (mr *MailRecord) Flagged() bool {
	return mr.HasWarning || mr.HasError
}
