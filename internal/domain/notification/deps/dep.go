package deps

import (
	"context"

	"github.com/jota-news/news-engine/internal/domain/notification/dto"
	"github.com/jota-news/news-engine/internal/domain/notification/entities"
)

// ChannelRepository defines the interface for notification channel data access
type ChannelRepository interface {
	// RecordAttempt atomically bumps total_sent plus the delivered or failed
	// counter and stamps last_used
	RecordAttempt(ctx context.Context, id uint, delivered bool) error
}

// SubscriptionRepository defines the interface for subscription data access
type SubscriptionRepository interface {
	// ListActive retrieves active subscriptions with channels and categories loaded
	ListActive(ctx context.Context) ([]entities.NotificationSubscription, error)
}

// NotificationRepository records delivery attempts
type NotificationRepository interface {
	// Create appends a delivery attempt row
	Create(ctx context.Context, notification *entities.Notification) error
}

// NewsReader is the news-side surface dispatch reads items through
type NewsReader interface {
	// GetForNotification returns the dispatchable projection of a news item
	GetForNotification(ctx context.Context, newsID uint) (*dto.NewsInfo, error)
}

// Transport delivers a rendered message over one channel type
type Transport interface {
	// Type returns the channel type this transport serves
	Type() string

	// Send delivers the message using the channel's configuration
	Send(ctx context.Context, channel *entities.NotificationChannel, message *dto.Message) error
}
