package kafka

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/webhook/dto"
	"github.com/jota-news/news-engine/internal/domain/webhook/usecase/business"
)

// Handlers handles Kafka messages for the webhook domain
type Handlers struct {
	uc     *business.UseCase
	logger zerolog.Logger
}

// NewHandlers creates new Kafka handlers
func NewHandlers(uc *business.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		logger: logger,
	}
}

// HandleProcessJob handles a queued webhook processing request
func (h *Handlers) HandleProcessJob(ctx context.Context, message []byte) error {
	var job dto.ProcessJob
	if err := json.Unmarshal(message, &job); err != nil {
		h.logger.Error().Err(err).
			Str("raw_message", string(message)).
			Msg("Failed to unmarshal webhook process job")
		return err
	}

	h.logger.Info().
		Uint("webhook_log_id", job.WebhookLogID).
		Msg("Processing webhook job")

	if err := h.uc.Process(ctx, job.WebhookLogID); err != nil {
		h.logger.Error().Err(err).
			Uint("webhook_log_id", job.WebhookLogID).
			Msg("Failed to process webhook")
		return err
	}

	return nil
}
