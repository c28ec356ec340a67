package watcher

import (
	"errors"
	"rwd/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockSender struct {
	sent    []int64
	failFor map[int64]error
}

func (m *mockSender) Send(recipient int64, _ string) error {
	if err, ok := m.failFor[recipient]; ok {
		return err
	}
	m.sent = append(m.sent, recipient)
	return nil
}

func TestFanout_DeliversToAll(t *testing.T) {
	sender := &mockSender{}
	f := NewFanout(sender, &testutil.MockLogger{}, testutil.NewMockMetrics())

	f.Notify([]int64{1, 2, 3}, "hello")
	assert.Equal(t, []int64{1, 2, 3}, sender.sent)
}

func TestFanout_OneFailureDoesNotBlockOthers(t *testing.T) {
	sender := &mockSender{failFor: map[int64]error{
		2: errors.New("blocked by recipient"),
	}}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	f := NewFanout(sender, logger, metrics)

	f.Notify([]int64{1, 2, 3}, "hello")

	assert.Equal(t, []int64{1, 3}, sender.sent)
	assert.True(t, logger.HasLevel("error"))
	assert.Equal(t, 1, metrics.NotifyFailures)
}

func TestFanout_EmptyRecipientSet(t *testing.T) {
	sender := &mockSender{}
	f := NewFanout(sender, &testutil.MockLogger{}, testutil.NewMockMetrics())

	f.Notify(nil, "hello")
	assert.Empty(t, sender.sent)
}
