// Package adapter exposes news-side operations to the other domains without
// letting them depend on news repositories directly.
package adapter

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	classdeps "github.com/jota-news/news-engine/internal/domain/classification/deps"
	"github.com/jota-news/news-engine/internal/domain/news/deps"
	"github.com/jota-news/news-engine/internal/domain/news/entities"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// NewsUpdater lets the classification domain read and commit onto news rows
type NewsUpdater struct {
	newsRepo deps.NewsRepository
	jobQueue deps.JobQueue
	logger   zerolog.Logger
}

// NewNewsUpdater creates the classification-facing news updater
func NewNewsUpdater(newsRepo deps.NewsRepository, jobQueue deps.JobQueue, logger zerolog.Logger) classdeps.NewsUpdater {
	return &NewsUpdater{
		newsRepo: newsRepo,
		jobQueue: jobQueue,
		logger:   logger.With().Str("component", "news_updater").Logger(),
	}
}

// ApplyClassification copies a prediction onto the news row. Committing an
// item that just became urgent also schedules notification dispatch.
func (a *NewsUpdater) ApplyClassification(ctx context.Context, newsID uint, categoryID uint, subcategoryID *uint, categoryConfidence, subcategoryConfidence, urgencyConfidence float64, isUrgent, markProcessed bool) error {
	news, err := a.newsRepo.GetByID(ctx, newsID)
	if err != nil {
		return err
	}

	becameUrgent := isUrgent && !news.IsUrgent

	news.CategoryID = &categoryID
	news.SubcategoryID = subcategoryID
	news.CategoryConfidence = categoryConfidence
	news.SubcategoryConfidence = subcategoryConfidence
	news.UrgencyConfidence = urgencyConfidence
	news.IsUrgent = isUrgent
	if markProcessed {
		news.IsProcessed = true
	}

	if err := a.newsRepo.Update(ctx, news); err != nil {
		return err
	}

	if markProcessed && becameUrgent {
		if err := a.jobQueue.EnqueueUrgentDispatch(ctx, newsID); err != nil {
			a.logger.Error().Err(err).
				Uint("news_id", newsID).
				Msg("Failed to enqueue urgent dispatch")
		}
	}

	return nil
}

// GetText returns the classifiable text and processing state of a news item
func (a *NewsUpdater) GetText(ctx context.Context, newsID uint) (string, string, bool, bool, error) {
	news, err := a.newsRepo.GetByID(ctx, newsID)
	if err != nil {
		return "", "", false, false, err
	}
	return news.Title, news.Content, news.IsProcessed, news.IsUrgent, nil
}

// CategoryResolver maps category names to rows for the classification domain
type CategoryResolver struct {
	categoryRepo deps.CategoryRepository
}

// NewCategoryResolver creates the classification-facing category resolver
func NewCategoryResolver(categoryRepo deps.CategoryRepository) classdeps.CategoryResolver {
	return &CategoryResolver{categoryRepo: categoryRepo}
}

func (a *CategoryResolver) ResolveOrCreate(ctx context.Context, name string) (uint, string, error) {
	name = strings.TrimSpace(name)

	category, err := a.categoryRepo.GetOrCreate(ctx, name, slugify(name), "")
	if err != nil {
		return 0, "", err
	}
	return category.ID, category.Name, nil
}

func (a *CategoryResolver) NameOf(ctx context.Context, id uint) (string, error) {
	category, err := a.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return category.Name, nil
}

func (a *CategoryResolver) SubcategoriesOf(ctx context.Context, categoryID uint) ([]entities.Subcategory, error) {
	return a.categoryRepo.ListActiveSubcategories(ctx, categoryID)
}
