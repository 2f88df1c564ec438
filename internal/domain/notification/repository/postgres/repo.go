package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jota-news/news-engine/internal/domain/notification/deps"
	"github.com/jota-news/news-engine/internal/domain/notification/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/notification/errors"
)

// channelRepository implements deps.ChannelRepository using GORM
type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new notification channel repository
func NewChannelRepository(db *gorm.DB) deps.ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) RecordAttempt(ctx context.Context, id uint, delivered bool) error {
	outcome := "total_failed"
	if delivered {
		outcome = "total_delivered"
	}

	err := r.db.WithContext(ctx).
		Model(&entities.NotificationChannel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_sent": gorm.Expr("total_sent + ?", 1),
			outcome:      gorm.Expr(outcome+" + ?", 1),
			"last_used":  time.Now(),
		}).Error
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}

// subscriptionRepository implements deps.SubscriptionRepository using GORM
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) deps.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) ListActive(ctx context.Context) ([]entities.NotificationSubscription, error) {
	var subscriptions []entities.NotificationSubscription

	err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Channel").
		Where("is_active = ?", true).
		Find(&subscriptions).Error
	if err != nil {
		return nil, domainerrors.ErrDatabaseOperation
	}

	return subscriptions, nil
}

// notificationRepository implements deps.NotificationRepository using GORM
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) deps.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entities.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return domainerrors.ErrDatabaseOperation
	}
	return nil
}
