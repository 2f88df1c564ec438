package deps

import (
	"context"
	"time"

	"github.com/jota-news/news-engine/internal/domain/classification/dto"
	"github.com/jota-news/news-engine/internal/domain/classification/entities"
	newsentities "github.com/jota-news/news-engine/internal/domain/news/entities"
)

// RuleRepository defines the interface for classification rule data access
type RuleRepository interface {
	// ListActive retrieves active rules in evaluation order:
	// priority ascending, then created_at, then id
	ListActive(ctx context.Context) ([]entities.ClassificationRule, error)

	// IncrementMatches atomically increments total_matches and stamps last_used
	IncrementMatches(ctx context.Context, id uint) error

	// IncrementSuccessful atomically increments successful_classifications
	IncrementSuccessful(ctx context.Context, id uint) error
}

// ModelRepository defines the interface for classification model data access
type ModelRepository interface {
	// GetActiveTrained retrieves the active trained model, if any
	GetActiveTrained(ctx context.Context) (*entities.ClassificationModel, error)

	// IncrementPredictions atomically increments total_predictions
	IncrementPredictions(ctx context.Context, id uint) error
}

// ResultRepository defines the interface for classification result data access
type ResultRepository interface {
	// Create records a classification attempt
	Create(ctx context.Context, result *entities.ClassificationResult) error

	// GetByID retrieves a result by ID
	GetByID(ctx context.Context, id uint) (*entities.ClassificationResult, error)

	// MarkAccepted sets is_accepted on a result
	MarkAccepted(ctx context.Context, id uint) error
}

// TrainingDataRepository defines the interface for training corpus access
type TrainingDataRepository interface {
	// Create appends a training data row
	Create(ctx context.Context, data *entities.ClassificationTrainingData) error
}

// StatisticRepository rolls up per-day classification statistics
type StatisticRepository interface {
	// RecordAttempt folds one attempt into the day's rollup
	RecordAttempt(ctx context.Context, day time.Time, method string, categoryName string, confidence, processingTime float64, succeeded bool) error
}

// InferenceClient is the trained-model inference collaborator
type InferenceClient interface {
	// Predict returns a single category and confidence for the text
	Predict(ctx context.Context, title, content string) (*dto.ModelPrediction, error)
}

// NewsUpdater is the news-side surface the ledger writes back to
type NewsUpdater interface {
	// ApplyClassification copies a prediction onto the news row; marking it
	// processed commits the classification
	ApplyClassification(ctx context.Context, newsID uint, categoryID uint, subcategoryID *uint, categoryConfidence, subcategoryConfidence, urgencyConfidence float64, isUrgent, markProcessed bool) error

	// GetText returns title, content and processed flag for a news item
	GetText(ctx context.Context, newsID uint) (title, content string, isProcessed bool, isUrgent bool, err error)
}

// CategoryResolver resolves model-predicted category names to entities
type CategoryResolver interface {
	// ResolveOrCreate maps a category name to its ID, creating it when absent
	ResolveOrCreate(ctx context.Context, name string) (id uint, resolvedName string, err error)

	// NameOf returns the display name of a category
	NameOf(ctx context.Context, id uint) (string, error)

	// SubcategoriesOf lists the active subcategories of a category
	SubcategoriesOf(ctx context.Context, categoryID uint) ([]newsentities.Subcategory, error)
}
