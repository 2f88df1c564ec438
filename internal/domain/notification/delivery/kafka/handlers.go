package kafka

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/notification/dto"
	"github.com/jota-news/news-engine/internal/domain/notification/usecase/business"
)

// Handlers handles Kafka messages for the notification domain
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

// HandleDispatchJob handles a queued notification dispatch request
func (h *Handlers) HandleDispatchJob(ctx context.Context, message []byte) error {
	var job dto.DispatchJob
	if err := json.Unmarshal(message, &job); err != nil {
		h.logger.Error().Err(err).
			Str("raw_message", string(message)).
			Msg("Failed to unmarshal dispatch job")
		return err
	}

	h.logger.Info().
		Uint("news_id", job.NewsID).
		Msg("Processing dispatch job")

	if err := h.uc.Dispatch(ctx, job.NewsID); err != nil {
		h.logger.Error().Err(err).
			Uint("news_id", job.NewsID).
			Msg("Failed to dispatch notifications")
		return err
	}

	return nil
}
