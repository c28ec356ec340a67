package models

// Delta is one detected version change, produced by a detector run and
// consumed by the notification step. Deltas are transient and never persisted.
type Delta struct {
	Name       string `json:"name"`
	OldVersion string `json:"old_version"`
	NewVersion string `json:"new_version"`
}

// CatalogRow is one (name, raw version cell) pair from a catalog snapshot.
// RawVersion may carry trailing descriptive text after the version token.
type CatalogRow struct {
	Name       string
	RawVersion string
}

// RawMessage is an undecoded RFC 822 message as fetched from the mailbox.
type RawMessage []byte

// RunResult aggregates the outcome of one scheduler run.
type RunResult struct {
	Deltas []Delta       `json:"deltas"`
	Mail   []*MailRecord `json:"mail"`
}

// Empty reports whether the run found nothing worth notifying about.
func (r *RunResult) Empty() bool {
	if r == nil {
		return true
	}
	if len(r.Deltas) > 0 {
		return false
	}
	for _, m := range r.Mail {
		if m.Flagged() {
			return false
		}
	}
	return true
}
