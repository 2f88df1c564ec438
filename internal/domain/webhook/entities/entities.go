package entities

import (
	"math"
	"time"
)

// Webhook log statuses
const (
	LogStatusProcessing = "processing"
	LogStatusSuccess    = "success"
	LogStatusFailed     = "failed"
)

// WebhookSource is a registered external publisher allowed to push news
type WebhookSource struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// SecretKey signs inbound payloads; empty disables signature checks
	SecretKey string `gorm:"size:255" json:"-"`

	RateLimitPerMinute int  `gorm:"default:100" json:"rateLimitPerMinute"`
	IsActive           bool `gorm:"default:true;index" json:"isActive"`

	TotalRequests      uint       `gorm:"default:0" json:"totalRequests"`
	SuccessfulRequests uint       `gorm:"default:0" json:"successfulRequests"`
	FailedRequests     uint       `gorm:"default:0" json:"failedRequests"`
	LastRequestAt      *time.Time `json:"lastRequestAt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for WebhookSource
func (WebhookSource) TableName() string {
	return "webhook_sources"
}

// SuccessRate returns the delivery success percentage in [0,100]; 0 for an
// unused source.
func (s *WebhookSource) SuccessRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	rate := float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100
	return math.Round(rate*100) / 100
}

// WebhookLog is an append-only record of one received webhook request
type WebhookLog struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	SourceID uint `gorm:"not null;index" json:"sourceId"`

	Status string `gorm:"size:20;not null;default:processing;index" json:"status"`

	Payload      string `gorm:"type:text" json:"payload"`
	Headers      string `gorm:"type:text" json:"headers,omitempty"`
	RemoteAddr   string `gorm:"size:64" json:"remoteAddr,omitempty"`
	ErrorMessage string `gorm:"type:text" json:"errorMessage,omitempty"`

	CreatedNewsID *uint `json:"createdNewsId,omitempty"`

	ProcessingTime float64 `gorm:"default:0" json:"processingTime"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Source WebhookSource `gorm:"foreignKey:SourceID" json:"-"`
}

// TableName returns the table name for WebhookLog
func (WebhookLog) TableName() string {
	return "webhook_logs"
}
