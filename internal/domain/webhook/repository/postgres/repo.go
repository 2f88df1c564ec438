package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jota-news/news-engine/internal/domain/webhook/deps"
	"github.com/jota-news/news-engine/internal/domain/webhook/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/webhook/errors"
)

// sourceRepository implements deps.SourceRepository using GORM
type sourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new webhook source repository
func NewSourceRepository(db *gorm.DB) deps.SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) GetActiveByName(ctx context.Context, name string) (*entities.WebhookSource, error) {
	var source entities.WebhookSource

	err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&source).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrSourceNotFound
		}
		return nil, domainerrors.ErrDatabaseOperation
	}

	return &source, nil
}

func (r *sourceRepository) GetByID(ctx context.Context, id uint) (*entities.WebhookSource, error) {
	var source entities.WebhookSource

	err := r.db.WithContext(ctx).First(&source, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrSourceNotFound
		}
		return nil, domainerrors.ErrDatabaseOperation
	}

	return &source, nil
}

func (r *sourceRepository) RecordRequest(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&entities.WebhookSource{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_requests":  gorm.Expr("total_requests + ?", 1),
			"last_request_at": time.Now(),
		}).Error
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}

func (r *sourceRepository) RecordOutcome(ctx context.Context, id uint, success bool) error {
	column := "failed_requests"
	if success {
		column = "successful_requests"
	}

	err := r.db.WithContext(ctx).
		Model(&entities.WebhookSource{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}

// logRepository implements deps.LogRepository using GORM
type logRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new webhook log repository
func NewLogRepository(db *gorm.DB) deps.LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, log *entities.WebhookLog) error {
	if log.Status == "" {
		log.Status = entities.LogStatusProcessing
	}
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return domainerrors.ErrDatabaseOperation
	}
	return nil
}

func (r *logRepository) GetByID(ctx context.Context, id uint) (*entities.WebhookLog, error) {
	var log entities.WebhookLog

	err := r.db.WithContext(ctx).First(&log, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrLogNotFound
		}
		return nil, domainerrors.ErrDatabaseOperation
	}

	return &log, nil
}

func (r *logRepository) MarkSuccess(ctx context.Context, id uint, newsID uint, processingTime float64) error {
	err := r.db.WithContext(ctx).
		Model(&entities.WebhookLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          entities.LogStatusSuccess,
			"created_news_id": newsID,
			"processing_time": processingTime,
		}).Error
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}

func (r *logRepository) MarkFailed(ctx context.Context, id uint, errorMessage string, processingTime float64) error {
	err := r.db.WithContext(ctx).
		Model(&entities.WebhookLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          entities.LogStatusFailed,
			"error_message":   errorMessage,
			"processing_time": processingTime,
		}).Error
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}
