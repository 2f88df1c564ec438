package business

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/config"
	newsdto "github.com/jota-news/news-engine/internal/domain/news/dto"
	"github.com/jota-news/news-engine/internal/domain/webhook/deps"
	"github.com/jota-news/news-engine/internal/domain/webhook/dto"
	"github.com/jota-news/news-engine/internal/domain/webhook/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/webhook/errors"
	"github.com/jota-news/news-engine/internal/infrastructure/metrics"
	"github.com/jota-news/news-engine/internal/utils"
)

// UseCase implements the webhook receive and processing pipeline
type UseCase struct {
	sourceRepo  deps.SourceRepository
	logRepo     deps.LogRepository
	rateLimiter deps.RateLimiter
	jobQueue    deps.JobQueue
	ingestor    deps.NewsIngestor
	cfg         *config.WebhookConfig
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewUseCase creates a new webhook use case
func NewUseCase(
	sourceRepo deps.SourceRepository,
	logRepo deps.LogRepository,
	rateLimiter deps.RateLimiter,
	jobQueue deps.JobQueue,
	ingestor deps.NewsIngestor,
	cfg *config.WebhookConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		sourceRepo:  sourceRepo,
		logRepo:     logRepo,
		rateLimiter: rateLimiter,
		jobQueue:    jobQueue,
		ingestor:    ingestor,
		cfg:         cfg,
		metrics:     m,
		logger:      logger.With().Str("component", "webhook_usecase").Logger(),
	}
}

// Receive validates an inbound webhook request, records it and schedules
// asynchronous processing. No log row is written for requests rejected
// before the payload is parseable JSON from a known source.
func (uc *UseCase) Receive(ctx context.Context, req *dto.ReceiveRequest) (*dto.ReceiveResponse, error) {
	source, err := uc.sourceRepo.GetActiveByName(ctx, req.SourceName)
	if err != nil {
		uc.metrics.WebhookRequestsTotal.WithLabelValues(req.SourceName, "rejected").Inc()
		return nil, err
	}

	limit := source.RateLimitPerMinute
	if limit <= 0 {
		limit = uc.cfg.DefaultRateLimitPerMinute
	}
	if !uc.rateLimiter.Allow("webhook:"+source.Name, limit) {
		uc.metrics.WebhookRequestsTotal.WithLabelValues(source.Name, "rate_limited").Inc()
		uc.logger.Warn().
			Str("source", source.Name).
			Int("limit", limit).
			Msg("Webhook source rate limited")
		return nil, domainerrors.ErrRateLimited
	}

	if !strings.Contains(strings.ToLower(req.ContentType), "application/json") {
		uc.metrics.WebhookRequestsTotal.WithLabelValues(source.Name, "rejected").Inc()
		return nil, domainerrors.ErrUnsupportedContentType
	}

	if source.SecretKey != "" {
		if !utils.VerifySignature(source.SecretKey, req.Signature, req.Body) {
			uc.metrics.WebhookRequestsTotal.WithLabelValues(source.Name, "rejected").Inc()
			uc.logger.Warn().
				Str("source", source.Name).
				Str("remote_addr", req.RemoteAddr).
				Msg("Webhook signature verification failed")
			return nil, domainerrors.ErrInvalidSignature
		}
	}

	if !json.Valid(req.Body) {
		uc.metrics.WebhookRequestsTotal.WithLabelValues(source.Name, "rejected").Inc()
		return nil, domainerrors.ErrInvalidPayload
	}

	log := &entities.WebhookLog{
		SourceID:   source.ID,
		Status:     entities.LogStatusProcessing,
		Payload:    string(req.Body),
		Headers:    req.Headers,
		RemoteAddr: req.RemoteAddr,
	}
	if err := uc.logRepo.Create(ctx, log); err != nil {
		return nil, err
	}

	if err := uc.sourceRepo.RecordRequest(ctx, source.ID); err != nil {
		uc.logger.Warn().Err(err).
			Str("source", source.Name).
			Msg("Failed to record webhook request counter")
	}

	if err := uc.jobQueue.EnqueueWebhookProcess(ctx, log.ID); err != nil {
		uc.logger.Error().Err(err).
			Uint("webhook_log_id", log.ID).
			Msg("Failed to enqueue webhook processing")
		if markErr := uc.logRepo.MarkFailed(ctx, log.ID, "failed to enqueue processing", 0); markErr != nil {
			uc.logger.Error().Err(markErr).
				Uint("webhook_log_id", log.ID).
				Msg("Failed to mark webhook log failed")
		}
		return nil, err
	}

	uc.metrics.WebhookRequestsTotal.WithLabelValues(source.Name, "accepted").Inc()

	uc.logger.Info().
		Str("source", source.Name).
		Uint("webhook_log_id", log.ID).
		Msg("Webhook accepted")

	return &dto.ReceiveResponse{
		Message:      "Webhook received successfully",
		WebhookLogID: log.ID,
	}, nil
}

// Process turns an accepted webhook log entry into a news item. Business
// failures finalize the log entry as failed and do not surface as errors, so
// the message is not retried.
func (uc *UseCase) Process(ctx context.Context, webhookLogID uint) error {
	start := time.Now()

	log, err := uc.logRepo.GetByID(ctx, webhookLogID)
	if err != nil {
		return err
	}
	if log.Status != entities.LogStatusProcessing {
		uc.logger.Debug().
			Uint("webhook_log_id", log.ID).
			Str("status", log.Status).
			Msg("Webhook log already finalized, skipping")
		return nil
	}

	source, err := uc.sourceRepo.GetByID(ctx, log.SourceID)
	if err != nil {
		return err
	}

	var payload dto.Payload
	if err := json.Unmarshal([]byte(log.Payload), &payload); err != nil {
		uc.finalizeFailure(ctx, log, source, "invalid JSON payload", start)
		return nil
	}

	resp, err := uc.ingestor.Ingest(ctx, buildIngestRequest(&payload, source.Name))
	if err != nil {
		uc.finalizeFailure(ctx, log, source, err.Error(), start)
		return nil
	}

	elapsed := time.Since(start).Seconds()
	if err := uc.logRepo.MarkSuccess(ctx, log.ID, resp.NewsID, elapsed); err != nil {
		return err
	}
	if err := uc.sourceRepo.RecordOutcome(ctx, source.ID, true); err != nil {
		uc.logger.Warn().Err(err).
			Str("source", source.Name).
			Msg("Failed to record webhook outcome")
	}

	uc.metrics.WebhookProcessDuration.Observe(elapsed)

	uc.logger.Info().
		Uint("webhook_log_id", log.ID).
		Uint("news_id", resp.NewsID).
		Str("source", source.Name).
		Bool("is_urgent", resp.IsUrgent).
		Msg("Webhook processed")

	return nil
}

func (uc *UseCase) finalizeFailure(ctx context.Context, log *entities.WebhookLog, source *entities.WebhookSource, message string, start time.Time) {
	elapsed := time.Since(start).Seconds()

	if err := uc.logRepo.MarkFailed(ctx, log.ID, message, elapsed); err != nil {
		uc.logger.Error().Err(err).
			Uint("webhook_log_id", log.ID).
			Msg("Failed to mark webhook log failed")
	}
	if err := uc.sourceRepo.RecordOutcome(ctx, source.ID, false); err != nil {
		uc.logger.Warn().Err(err).
			Str("source", source.Name).
			Msg("Failed to record webhook outcome")
	}

	uc.metrics.WebhookProcessDuration.Observe(elapsed)

	uc.logger.Warn().
		Uint("webhook_log_id", log.ID).
		Str("source", source.Name).
		Str("reason", message).
		Msg("Webhook processing failed")
}

func buildIngestRequest(payload *dto.Payload, sourceName string) *newsdto.IngestRequest {
	source := payload.Source
	if source == "" {
		source = sourceName
	}

	// An explicit priority overrides the payload's is_urgent flag
	isUrgent := payload.IsUrgent
	switch strings.ToLower(payload.Priority) {
	case "urgent", "high":
		isUrgent = true
	case "medium", "low":
		isUrgent = false
	}

	return &newsdto.IngestRequest{
		Title:        payload.Title,
		Content:      payload.Content,
		Source:       source,
		SourceURL:    payload.SourceURL,
		Author:       payload.Author,
		ExternalID:   payload.ExternalID,
		IsUrgent:     isUrgent,
		PublishedAt:  parsePublishedAt(payload.PublishedAt),
		Tags:         payload.Tags,
		CategoryHint: payload.CategoryHint,
		SubcatHint:   payload.Subcategory,
	}
}

var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parsePublishedAt parses a publisher timestamp leniently; an unparseable
// value is dropped so the ingest path falls back to the current time.
func parsePublishedAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
