package notification

import (
	"go.uber.org/fx"

	"github.com/jota-news/news-engine/internal/domain/notification/delivery/kafka"
	"github.com/jota-news/news-engine/internal/domain/notification/deps"
	"github.com/jota-news/news-engine/internal/domain/notification/repository/postgres"
	"github.com/jota-news/news-engine/internal/domain/notification/transport"
	"github.com/jota-news/news-engine/internal/domain/notification/usecase/business"
)

func newTransports(telegram *transport.TelegramTransport, webhook *transport.WebhookTransport) []deps.Transport {
	return []deps.Transport{telegram, webhook}
}

// Module provides notification domain dependencies
var Module = fx.Module(
	"notification",
	fx.Provide(
		postgres.NewChannelRepository,
		postgres.NewSubscriptionRepository,
		postgres.NewNotificationRepository,
		transport.NewTelegramTransport,
		transport.NewWebhookTransport,
		newTransports,
		business.NewUseCase,
		kafka.NewHandlers,
	),
)
