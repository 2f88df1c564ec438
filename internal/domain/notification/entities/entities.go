package entities

import (
	"math"
	"time"

	newsentities "github.com/jota-news/news-engine/internal/domain/news/entities"
)

// Channel types
const (
	ChannelTypeTelegram = "telegram"
	ChannelTypeWebhook  = "webhook"
	ChannelTypeEmail    = "email"
)

// Subscription priorities, lowest to highest
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification statuses
const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// NotificationChannel is a configured delivery target for alerts
type NotificationChannel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	ChannelType string `gorm:"size:20;not null" json:"channelType"`

	// Config holds type-specific settings: chat_id for telegram,
	// url and secret for webhook channels
	Config map[string]interface{} `gorm:"serializer:json;type:text" json:"config"`

	IsActive bool `gorm:"default:true;index" json:"isActive"`

	TotalSent      uint       `gorm:"default:0" json:"totalSent"`
	TotalDelivered uint       `gorm:"default:0" json:"totalDelivered"`
	TotalFailed    uint       `gorm:"default:0" json:"totalFailed"`
	LastUsed       *time.Time `json:"lastUsed,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for NotificationChannel
func (NotificationChannel) TableName() string {
	return "notification_channels"
}

// DeliveryRate returns the delivery percentage in [0,100]; 0 for an unused channel.
func (c *NotificationChannel) DeliveryRate() float64 {
	if c.TotalSent == 0 {
		return 0
	}
	rate := float64(c.TotalDelivered) / float64(c.TotalSent) * 100
	return math.Round(rate*100) / 100
}

// NotificationSubscription routes matching news to a channel
type NotificationSubscription struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	ChannelID uint   `gorm:"not null;index" json:"channelId"`

	// MinPriority is the lowest news priority this subscription accepts
	MinPriority string `gorm:"size:20;not null;default:medium" json:"minPriority"`

	// UrgentOnly restricts delivery to urgent items regardless of priority
	UrgentOnly bool `gorm:"default:false" json:"urgentOnly"`

	// Categories narrows delivery; empty matches every category
	Categories []newsentities.Category `gorm:"many2many:notification_subscription_categories" json:"categories,omitempty"`

	// Keywords narrows delivery to items mentioning any of them; empty matches all
	Keywords []string `gorm:"serializer:json;type:text" json:"keywords"`

	IsActive bool `gorm:"default:true;index" json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Channel NotificationChannel `gorm:"foreignKey:ChannelID" json:"-"`
}

// TableName returns the table name for NotificationSubscription
func (NotificationSubscription) TableName() string {
	return "notification_subscriptions"
}

// Notification records a single delivery attempt
type Notification struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	SubscriptionID uint `gorm:"not null;index" json:"subscriptionId"`
	ChannelID      uint `gorm:"not null;index" json:"channelId"`
	NewsID         uint `gorm:"not null;index" json:"newsId"`

	Status       string `gorm:"size:20;not null" json:"status"`
	ErrorMessage string `gorm:"type:text" json:"errorMessage,omitempty"`

	SentAt    *time.Time `json:"sentAt,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
