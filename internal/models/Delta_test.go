package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunResult_Empty(t *testing.T) {
	var nilResult *RunResult
	assert.True(t, nilResult.Empty())
	assert.True(t, (&RunResult{}).Empty())

	withDelta := &RunResult{Deltas: []Delta{{Name: "Alpha"}}}
	assert.False(t, withDelta.Empty())

	quietMail := &RunResult{Mail: []*MailRecord{{Subject: "plain"}}}
	assert.True(t, quietMail.Empty(), "unflagged mail alone is not notifiable")

	flaggedMail := &RunResult{Mail: []*MailRecord{{Subject: "broken", HasError: true}}}
	assert.False(t, flaggedMail.Empty())
}

func TestMailRecord_Flagged(t *testing.T) {
	assert.False(t, (&MailRecord{}).Flagged())
	assert.True(t, (&MailRecord{HasWarning: true}).Flagged())
	assert.True(t, (&MailRecord{HasError: true}).Flagged())

	count := 12
	assert.False(t, (&MailRecord{UpdateCount: &count}).Flagged(), "a count alone does not flag")
}
