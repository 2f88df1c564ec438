package kafka

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jota-news/news-engine/config"
)

const (
	minBytes = 1
	maxBytes = 10e6
)

// MessageHandler processes one consumed message
type MessageHandler func(ctx context.Context, message []byte) error

// Consumer runs a fetch-handle-commit loop over one topic. Handler errors
// skip the commit so the message is redelivered.
type Consumer struct {
	reader  *kafka.Reader
	handler MessageHandler
	logger  zerolog.Logger
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewConsumer creates a consumer for one topic
func NewConsumer(cfg *config.KafkaConfig, topic string, handler MessageHandler, logger zerolog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       topic,
		GroupID:     cfg.GroupID,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		MaxWait:     3 * time.Second,
		StartOffset: kafka.FirstOffset,
	})

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", topic).
		Str("group_id", cfg.GroupID).
		Msg("Kafka consumer initialized")

	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		reader:  reader,
		handler: handler,
		logger:  logger.With().Str("topic", topic).Logger(),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins consuming in a background goroutine
func (c *Consumer) Start() {
	go c.consume()
	c.logger.Info().Msg("Kafka consumer started")
}

func (c *Consumer) consume() {
	for {
		select {
		case <-c.ctx.Done():
			c.logger.Info().Msg("Consumer context canceled, stopping")
			return
		case <-c.done:
			c.logger.Info().Msg("Consumer received stop signal")
			return
		default:
			msg, err := c.reader.FetchMessage(c.ctx)
			if err != nil {
				if c.ctx.Err() != nil {
					return
				}
				c.logger.Error().Err(err).Msg("Failed to fetch message")
				continue
			}

			c.logger.Debug().
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("Received message from Kafka")

			if err := c.handler(c.ctx, msg.Value); err != nil {
				c.logger.Error().Err(err).
					Int64("offset", msg.Offset).
					Msg("Failed to handle message")
				continue
			}

			if err := c.reader.CommitMessages(c.ctx, msg); err != nil {
				c.logger.Error().Err(err).
					Int64("offset", msg.Offset).
					Msg("Failed to commit message")
			}
		}
	}
}

// Stop cancels consumption and closes the reader
func (c *Consumer) Stop() error {
	c.cancel()
	close(c.done)

	if err := c.reader.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		return err
	}

	c.logger.Info().Msg("Kafka consumer stopped")
	return nil
}
