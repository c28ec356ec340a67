// Package notify delivers notifications to individual Telegram chats. It
// implements watcher.SenderInterface; the fanout above it owns failure
// isolation across recipients, this package owns one delivery.
package notify

import (
	"fmt"
	"rwd/internal/providers"
	"rwd/internal/structures"
	"rwd/internal/watcher"
	"time"

	"github.com/codeGROOVE-dev/retry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramSender struct {
	bot      *tgbotapi.BotAPI
	logger   providers.Logger
	mockMode bool
}

// NewTelegramSender connects to the Bot API. With mockMode on (local runs,
// tests against a full wiring) deliveries are logged instead of sent and no
// token is required.
func NewTelegramSender(conf *structures.Config, logger providers.Logger) (watcher.SenderInterface, error) {
	if conf.Notifier.MockMode {
		logger.Infof(providers.TypeApp, "Telegram sender in mock mode")
		return &TelegramSender{logger: logger, mockMode: true}, nil
	}

	bot, err := tgbotapi.NewBotAPI(conf.Notifier.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	logger.Infof(providers.TypeApp, "Telegram sender authorized as %s", bot.Self.UserName)

	return &TelegramSender{
		bot:    bot,
		logger: logger,
	}, nil
}

func (t *TelegramSender) Send(recipient int64, text string) error {
	if t.mockMode {
		t.logger.Infof(providers.TypeApp, "MOCK NOTIFICATION to %d: %s", recipient, text)
		return nil
	}

	err := retry.Do(
		func() error {
			_, err := t.bot.Send(tgbotapi.NewMessage(recipient, text))
			return err
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
	)
	if err != nil {
		return fmt.Errorf("%w: chat %d: %v", watcher.ErrDeliveryFailed, recipient, err)
	}
	return nil
}
