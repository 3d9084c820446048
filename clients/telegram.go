package clients

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joy095/bayelite/config"
	"github.com/joy095/bayelite/logger"
)

// TelegramNotifier posts operator alerts to a single chat. With no token or chat id it
// is disabled and only logs.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(cfg config.TelegramConfig) (*TelegramNotifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		logger.WarnLogger.Warn("Telegram bot token or chat id is empty, operator alerts disabled")
		return &TelegramNotifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	logger.InfoLogger.Infof("Telegram alerts enabled as @%s", bot.Self.UserName)

	return &TelegramNotifier{bot: bot, chatID: cfg.ChatID}, nil
}

func (n *TelegramNotifier) Enabled() bool {
	return n != nil && n.bot != nil
}

// Alert sends text to the operator chat.
func (n *TelegramNotifier) Alert(ctx context.Context, text string) error {
	if !n.Enabled() {
		logger.DebugLogger.Debugf("Operator alert skipped (bot disabled): %s", text)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("failed to send telegram alert: %w", err)
	}
	return nil
}
