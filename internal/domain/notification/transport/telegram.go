// Package transport implements the delivery backends notifications go out
// through.
package transport

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/config"
	"github.com/jota-news/news-engine/internal/domain/notification/dto"
	"github.com/jota-news/news-engine/internal/domain/notification/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/notification/errors"
)

// TelegramTransport delivers notifications through a Telegram bot
type TelegramTransport struct {
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewTelegramTransport creates a telegram transport; a missing bot token
// disables it and delivery attempts over telegram channels fail.
func NewTelegramTransport(cfg *config.TelegramConfig, logger zerolog.Logger) (*TelegramTransport, error) {
	transport := &TelegramTransport{
		logger: logger.With().Str("transport", "telegram").Logger(),
	}

	if cfg.BotToken == "" {
		logger.Info().Msg("Telegram bot token not configured, telegram transport disabled")
		return transport, nil
	}

	bot, err := tgbot.New(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	transport.bot = bot

	return transport, nil
}

// Type returns the channel type this transport serves
func (t *TelegramTransport) Type() string {
	return entities.ChannelTypeTelegram
}

// Send delivers the message to the chat configured on the channel
func (t *TelegramTransport) Send(ctx context.Context, channel *entities.NotificationChannel, message *dto.Message) error {
	if t.bot == nil {
		return domainerrors.ErrChannelMisconfigured
	}

	chatID, ok := channel.Config["chat_id"]
	if !ok {
		return domainerrors.ErrChannelMisconfigured
	}

	_, err := t.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   renderText(message),
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}

func renderText(message *dto.Message) string {
	prefix := ""
	if message.IsUrgent {
		prefix = "🚨 URGENT: "
	}

	text := prefix + message.Title
	if message.Summary != "" {
		text += "\n\n" + message.Summary
	}
	if message.Source != "" {
		text += "\n\nSource: " + message.Source
	}
	return text
}
