package kafka

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/classification/dto"
	"github.com/jota-news/news-engine/internal/domain/classification/usecase/business"
)

// Handlers handles Kafka messages for the classification domain
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

// HandleClassifyJob handles a queued classification request
func (h *Handlers) HandleClassifyJob(ctx context.Context, message []byte) error {
	var job dto.ClassifyJob
	if err := json.Unmarshal(message, &job); err != nil {
		h.logger.Error().Err(err).
			Str("raw_message", string(message)).
			Msg("Failed to unmarshal classify job")
		return err
	}

	h.logger.Info().
		Uint("news_id", job.NewsID).
		Str("method", job.Method).
		Msg("Processing classify job")

	_, err := h.uc.ClassifyNews(ctx, job.NewsID, job.Method)
	if err != nil {
		h.logger.Error().Err(err).
			Uint("news_id", job.NewsID).
			Msg("Failed to classify news")
		return err
	}

	return nil
}
