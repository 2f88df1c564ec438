package dto

import "time"

// CreateNewsRequest represents a direct API creation request
type CreateNewsRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Summary     string     `json:"summary"`
	Source      string     `json:"source"`
	SourceURL   string     `json:"sourceUrl"`
	Author      string     `json:"author"`
	ExternalID  string     `json:"externalId"`
	IsUrgent    bool       `json:"isUrgent"`
	PublishedAt *time.Time `json:"publishedAt"`
	Tags        []string   `json:"tags"`
	CategoryID  *uint      `json:"categoryId"`
}

// IngestRequest represents an item arriving from the webhook pipeline
type IngestRequest struct {
	Title        string
	Content      string
	Summary      string
	Source       string
	SourceURL    string
	Author       string
	ExternalID   string
	IsUrgent     bool
	PublishedAt  *time.Time
	Tags         []string
	CategoryHint string
	SubcatHint   string
}

// IngestResponse reports the created news item
type IngestResponse struct {
	NewsID   uint
	IsUrgent bool
}

// UpdateNewsRequest represents an update to a news item
type UpdateNewsRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Summary     *string `json:"summary"`
	Author      *string `json:"author"`
	IsUrgent    *bool   `json:"isUrgent"`
	IsPublished *bool   `json:"isPublished"`
	CategoryID  *uint   `json:"categoryId"`
}

// NewsListItem is a list-view projection; full content is excluded
type NewsListItem struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	CategoryID  *uint     `json:"categoryId,omitempty"`
	IsUrgent    bool      `json:"isUrgent"`
	IsPublished bool      `json:"isPublished"`
	WordCount   uint      `json:"wordCount"`
	ReadingTime uint      `json:"readingTime"`
	ViewCount   uint      `json:"viewCount"`
	PublishedAt time.Time `json:"publishedAt"`
}

// ListNewsResponse is the paginated listing envelope
type ListNewsResponse struct {
	Count    int64          `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []NewsListItem `json:"results"`
}
