package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/jota-news/news-engine/config"
	classificationKafka "github.com/jota-news/news-engine/internal/domain/classification/delivery/kafka"
	newsdeps "github.com/jota-news/news-engine/internal/domain/news/deps"
	notificationKafka "github.com/jota-news/news-engine/internal/domain/notification/delivery/kafka"
	webhookdeps "github.com/jota-news/news-engine/internal/domain/webhook/deps"
	webhookKafka "github.com/jota-news/news-engine/internal/domain/webhook/delivery/kafka"
	"github.com/jota-news/news-engine/internal/infrastructure/metrics"
)

var Module = fx.Module("kafka",
	fx.Provide(NewProducerFx),
	fx.Provide(func(p *Producer) newsdeps.JobQueue { return p }),
	fx.Provide(func(p *Producer) webhookdeps.JobQueue { return p }),
	fx.Invoke(registerWebhookConsumerLifecycle),
	fx.Invoke(registerClassifyConsumerLifecycle),
	fx.Invoke(registerDispatchConsumerLifecycle),
)

func NewProducerFx(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (*Producer, error) {
	producer, err := NewProducer(cfg, m, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}

func registerWebhookConsumerLifecycle(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	handlers *webhookKafka.Handlers,
	logger zerolog.Logger,
) {
	consumer := NewConsumer(cfg, cfg.TopicWebhookProcess, handlers.HandleProcessJob,
		logger.With().Str("component", "kafka-webhook-consumer").Logger())
	appendConsumerHooks(lc, consumer)
}

func registerClassifyConsumerLifecycle(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	handlers *classificationKafka.Handlers,
	logger zerolog.Logger,
) {
	consumer := NewConsumer(cfg, cfg.TopicClassifyNews, handlers.HandleClassifyJob,
		logger.With().Str("component", "kafka-classify-consumer").Logger())
	appendConsumerHooks(lc, consumer)
}

func registerDispatchConsumerLifecycle(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	handlers *notificationKafka.Handlers,
	logger zerolog.Logger,
) {
	consumer := NewConsumer(cfg, cfg.TopicDispatchUrgent, handlers.HandleDispatchJob,
		logger.With().Str("component", "kafka-dispatch-consumer").Logger())
	appendConsumerHooks(lc, consumer)
}

func appendConsumerHooks(lc fx.Lifecycle, consumer *Consumer) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			consumer.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return consumer.Stop()
		},
	})
}
