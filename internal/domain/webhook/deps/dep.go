package deps

import (
	"context"

	newsdto "github.com/jota-news/news-engine/internal/domain/news/dto"
	"github.com/jota-news/news-engine/internal/domain/webhook/entities"
)

// SourceRepository defines the interface for webhook source data access
type SourceRepository interface {
	// GetActiveByName retrieves an active source by name
	GetActiveByName(ctx context.Context, name string) (*entities.WebhookSource, error)

	// GetByID retrieves a source by ID
	GetByID(ctx context.Context, id uint) (*entities.WebhookSource, error)

	// RecordRequest atomically bumps total_requests and stamps last_request_at
	RecordRequest(ctx context.Context, id uint) error

	// RecordOutcome atomically bumps the success or failure counter
	RecordOutcome(ctx context.Context, id uint, success bool) error
}

// LogRepository defines the interface for webhook log data access
type LogRepository interface {
	// Create appends a log entry in processing state
	Create(ctx context.Context, log *entities.WebhookLog) error

	// GetByID retrieves a log entry by ID
	GetByID(ctx context.Context, id uint) (*entities.WebhookLog, error)

	// MarkSuccess finalizes an entry with the created news ID
	MarkSuccess(ctx context.Context, id uint, newsID uint, processingTime float64) error

	// MarkFailed finalizes an entry with an error message
	MarkFailed(ctx context.Context, id uint, errorMessage string, processingTime float64) error
}

// RateLimiter enforces per-source request budgets over a rolling window
type RateLimiter interface {
	// Allow reports whether another request for key fits within limit
	Allow(key string, limit int) bool
}

// JobQueue enqueues asynchronous webhook processing
type JobQueue interface {
	// EnqueueWebhookProcess schedules processing of a logged webhook request
	EnqueueWebhookProcess(ctx context.Context, webhookLogID uint) error
}

// NewsIngestor is the news-side surface webhook processing creates items through
type NewsIngestor interface {
	// Ingest validates and persists a news item
	Ingest(ctx context.Context, req *newsdto.IngestRequest) (*newsdto.IngestResponse, error)
}
