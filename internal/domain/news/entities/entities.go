package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

const wordsPerMinute = 200

// Category is a top-level news category with classification keywords
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Keywords    []string  `gorm:"serializer:json;type:text" json:"keywords"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories,omitempty"`
}

// TableName returns the table name for Category
func (Category) TableName() string {
	return "news_categories"
}

// Subcategory belongs to exactly one Category; (category_id, slug) unique
type Subcategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Slug        string    `gorm:"size:100;not null;index:idx_category_slug,unique" json:"slug"`
	CategoryID  uint      `gorm:"not null;index:idx_category_slug,unique" json:"categoryId"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Keywords    []string  `gorm:"serializer:json;type:text" json:"keywords"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName returns the table name for Subcategory
func (Subcategory) TableName() string {
	return "news_subcategories"
}

// Tag is a free-form label attached to news items
type Tag struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Slug       string    `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	UsageCount uint      `gorm:"default:0" json:"usageCount"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for Tag
func (Tag) TableName() string {
	return "news_tags"
}

// News is the canonical news item
type News struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Summary string `gorm:"size:500" json:"summary,omitempty"`

	Source    string `gorm:"size:200;not null;index" json:"source"`
	SourceURL string `gorm:"size:500" json:"sourceUrl,omitempty"`
	Author    string `gorm:"size:200" json:"author,omitempty"`

	PublishedAt time.Time `gorm:"index" json:"publishedAt"`
	// ExternalID is nullable; when present it is globally unique and makes
	// ingestion idempotent. The unique index is the sole safeguard against
	// duplicate ingestion under concurrent webhook delivery.
	ExternalID *string `gorm:"size:200;uniqueIndex" json:"externalId,omitempty"`

	CategoryID    *uint `gorm:"index" json:"categoryId,omitempty"`
	SubcategoryID *uint `gorm:"index" json:"subcategoryId,omitempty"`
	Tags          []Tag `gorm:"many2many:news_item_tags" json:"tags,omitempty"`

	IsUrgent    bool `gorm:"default:false;index" json:"isUrgent"`
	IsPublished bool `gorm:"default:true;index" json:"isPublished"`
	IsProcessed bool `gorm:"default:false" json:"isProcessed"`

	CategoryConfidence    float64 `gorm:"default:0" json:"categoryConfidence"`
	SubcategoryConfidence float64 `gorm:"default:0" json:"subcategoryConfidence"`
	UrgencyConfidence     float64 `gorm:"default:0" json:"urgencyConfidence"`

	WordCount   uint `gorm:"default:0" json:"wordCount"`
	ReadingTime uint `gorm:"default:0" json:"readingTime"`
	ViewCount   uint `gorm:"default:0" json:"viewCount"`
	ShareCount  uint `gorm:"default:0" json:"shareCount"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
}

// TableName returns the table name for News
func (News) TableName() string {
	return "news_items"
}

// BeforeSave derives word count, reading time and summary from content
func (n *News) BeforeSave(tx *gorm.DB) error {
	words := strings.Fields(n.Content)
	n.WordCount = uint(len(words))

	n.ReadingTime = n.WordCount / wordsPerMinute
	if n.ReadingTime < 1 {
		n.ReadingTime = 1
	}

	if n.Summary == "" && n.Content != "" {
		if len(n.Content) > 500 {
			// Back up to a rune boundary so the cut never splits a
			// multi-byte character
			cut := 497
			for cut > 0 && !utf8.RuneStart(n.Content[cut]) {
				cut--
			}
			n.Summary = n.Content[:cut] + "..."
		} else {
			n.Summary = n.Content
		}
	}

	return nil
}

// NewsProcessingLog is an append-only record of pipeline stages for a news item
type NewsProcessingLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	NewsID         uint      `gorm:"not null;index" json:"newsId"`
	Stage          string    `gorm:"size:50;not null" json:"stage"`
	Status         string    `gorm:"size:20;not null" json:"status"`
	Message        string    `gorm:"type:text" json:"message,omitempty"`
	ProcessingTime float64   `gorm:"default:0" json:"processingTime"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for NewsProcessingLog
func (NewsProcessingLog) TableName() string {
	return "news_processing_logs"
}
