package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jota-news/news-engine/config"
	"github.com/jota-news/news-engine/internal/infrastructure/metrics"
)

type webhookProcessMessage struct {
	WebhookLogID uint `json:"webhook_log_id"`
}

type classifyMessage struct {
	NewsID uint   `json:"news_id"`
	Method string `json:"method"`
}

type dispatchMessage struct {
	NewsID uint `json:"news_id"`
}

// Producer publishes pipeline jobs to Kafka. It backs the JobQueue
// interfaces of the webhook, news and classification domains.
type Producer struct {
	writer  *kafka.Writer
	cfg     *config.KafkaConfig
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) (*Producer, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Msg("Kafka producer initialized")

	return &Producer{
		writer:  writer,
		cfg:     cfg,
		metrics: m,
		logger:  logger,
	}, nil
}

// EnqueueWebhookProcess schedules processing of a logged webhook request
func (p *Producer) EnqueueWebhookProcess(ctx context.Context, webhookLogID uint) error {
	return p.send(ctx, p.cfg.TopicWebhookProcess,
		fmt.Sprintf("webhook-%d", webhookLogID),
		webhookProcessMessage{WebhookLogID: webhookLogID})
}

// EnqueueClassification schedules classification of a news item
func (p *Producer) EnqueueClassification(ctx context.Context, newsID uint, method string) error {
	return p.send(ctx, p.cfg.TopicClassifyNews,
		fmt.Sprintf("news-%d", newsID),
		classifyMessage{NewsID: newsID, Method: method})
}

// EnqueueUrgentDispatch schedules notification dispatch for urgent news
func (p *Producer) EnqueueUrgentDispatch(ctx context.Context, newsID uint) error {
	return p.send(ctx, p.cfg.TopicDispatchUrgent,
		fmt.Sprintf("news-%d", newsID),
		dispatchMessage{NewsID: newsID})
}

func (p *Producer) send(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		p.metrics.KafkaProduceErrors.WithLabelValues(topic).Inc()
		p.logger.Error().Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to send message")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.metrics.KafkaMessagesProduced.Inc()

	p.logger.Debug().
		Str("topic", topic).
		Str("key", key).
		Msg("Message sent")

	return nil
}

// Close flushes and closes the underlying writer
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
