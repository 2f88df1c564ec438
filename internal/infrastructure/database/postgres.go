package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jota-news/news-engine/config"
	classificationentities "github.com/jota-news/news-engine/internal/domain/classification/entities"
	newsentities "github.com/jota-news/news-engine/internal/domain/news/entities"
	notificationentities "github.com/jota-news/news-engine/internal/domain/notification/entities"
	webhookentities "github.com/jota-news/news-engine/internal/domain/webhook/entities"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&newsentities.Category{},
		&newsentities.Subcategory{},
		&newsentities.Tag{},
		&newsentities.News{},
		&newsentities.NewsProcessingLog{},
		&classificationentities.ClassificationRule{},
		&classificationentities.ClassificationModel{},
		&classificationentities.ClassificationResult{},
		&classificationentities.ClassificationTrainingData{},
		&classificationentities.ClassificationStatistic{},
		&webhookentities.WebhookSource{},
		&webhookentities.WebhookLog{},
		&notificationentities.NotificationChannel{},
		&notificationentities.NotificationSubscription{},
		&notificationentities.Notification{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return db, nil
}
