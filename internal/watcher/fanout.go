package watcher

import (
	"rwd/internal/providers"
)

// SenderInterface delivers one message to one recipient.
type SenderInterface interface {
	Send(recipient int64, text string) error
}

// Fanout delivers a message to every subscriber independently: one blocked
// or unreachable recipient never prevents delivery to the rest. At most one
// delivery attempt per recipient per call.
type Fanout struct {
	sender  SenderInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewFanout(sender SenderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Fanout {
	return &Fanout{
		sender:  sender,
		logger:  logger,
		metrics: metrics,
	}
}

func (f *Fanout) Notify(recipients []int64, text string) {
	for _, id := range recipients {
		if err := f.sender.Send(id, text); err != nil {
			f.logger.Errorf(providers.TypeApp, "Delivery to %d failed: %s", id, err)
			f.metrics.IncNotifyFailures()
			continue
		}
		f.logger.Debugf(providers.TypeApp, "Delivered notification to %d", id)
	}
}
