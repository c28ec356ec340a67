package notify

import (
	"rwd/internal/structures"
	"rwd/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTelegramSender_MockModeNeedsNoToken(t *testing.T) {
	conf := &structures.Config{
		Notifier: structures.NotifierConfig{MockMode: true},
	}

	sender, err := NewTelegramSender(conf, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.NotNil(t, sender)
}

func TestTelegramSender_MockModeLogsDelivery(t *testing.T) {
	conf := &structures.Config{
		Notifier: structures.NotifierConfig{MockMode: true},
	}
	logger := &testutil.MockLogger{}
	sender, err := NewTelegramSender(conf, logger)
	require.NoError(t, err)

	require.NoError(t, sender.Send(42, "Alpha: 1.0 -> 1.1"))
	assert.True(t, logger.HasLevel("info"))
}
