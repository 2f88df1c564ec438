package deps

import (
	"context"

	"github.com/jota-news/news-engine/internal/domain/news/entities"
)

// ListFilter narrows and pages news listings
type ListFilter struct {
	CategoryID  *uint
	Source      string
	IsUrgent    *bool
	IsPublished *bool
	Page        int
	PageSize    int
}

// NewsRepository defines the interface for news data access
type NewsRepository interface {
	// Create creates a news item; duplicate external_id yields a conflict
	Create(ctx context.Context, news *entities.News) error

	// GetByID retrieves news by ID
	GetByID(ctx context.Context, id uint) (*entities.News, error)

	// ExistsByExternalID checks whether a news item with the external ID exists
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)

	// List retrieves a page of news and the total count
	List(ctx context.Context, filter ListFilter) ([]entities.News, int64, error)

	// Update persists changes to a news item
	Update(ctx context.Context, news *entities.News) error

	// Delete soft-deletes a news item
	Delete(ctx context.Context, id uint) error

	// IncrementViewCount atomically increments the view counter
	IncrementViewCount(ctx context.Context, id uint) error

	// IncrementShareCount atomically increments the share counter
	IncrementShareCount(ctx context.Context, id uint) error

	// ReplaceTags sets the tag associations for a news item
	ReplaceTags(ctx context.Context, news *entities.News, tags []entities.Tag) error
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// GetByID retrieves a category by ID
	GetByID(ctx context.Context, id uint) (*entities.Category, error)

	// GetActiveByName retrieves an active category by case-insensitive name
	GetActiveByName(ctx context.Context, name string) (*entities.Category, error)

	// GetOrCreate retrieves a category by name or creates it
	GetOrCreate(ctx context.Context, name, slug, description string) (*entities.Category, error)

	// ListActive retrieves all active categories
	ListActive(ctx context.Context) ([]entities.Category, error)

	// GetActiveSubcategory retrieves an active subcategory by name within a category
	GetActiveSubcategory(ctx context.Context, categoryID uint, name string) (*entities.Subcategory, error)

	// ListActiveSubcategories retrieves active subcategories of a category
	ListActiveSubcategories(ctx context.Context, categoryID uint) ([]entities.Subcategory, error)
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// GetOrCreate retrieves a tag by name or creates it
	GetOrCreate(ctx context.Context, name string) (*entities.Tag, error)

	// IncrementUsage atomically increments the tag usage counter
	IncrementUsage(ctx context.Context, id uint) error

	// List retrieves all tags ordered by usage
	List(ctx context.Context) ([]entities.Tag, error)
}

// ProcessingLogRepository records pipeline stages per news item
type ProcessingLogRepository interface {
	// Create appends a processing log entry
	Create(ctx context.Context, log *entities.NewsProcessingLog) error
}

// JobQueue enqueues asynchronous pipeline work
type JobQueue interface {
	// EnqueueClassification schedules classification of a news item
	EnqueueClassification(ctx context.Context, newsID uint, method string) error

	// EnqueueUrgentDispatch schedules notification dispatch for urgent news
	EnqueueUrgentDispatch(ctx context.Context, newsID uint) error
}
