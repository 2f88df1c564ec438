package business

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/news/deps"
	"github.com/jota-news/news-engine/internal/domain/news/dto"
	"github.com/jota-news/news-engine/internal/domain/news/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/news/errors"
	"github.com/jota-news/news-engine/pkg/mapfn"
)

const (
	maxTitleLength   = 200
	maxContentLength = 10000

	defaultCategoryName = "Geral"
	defaultCategorySlug = "general"

	// StageWebhookReceived marks ingestion via the webhook pipeline
	StageWebhookReceived = "webhook_received"
)

// UseCase implements news business logic
type UseCase struct {
	newsRepo     deps.NewsRepository
	categoryRepo deps.CategoryRepository
	tagRepo      deps.TagRepository
	logRepo      deps.ProcessingLogRepository
	jobQueue     deps.JobQueue
	logger       zerolog.Logger
}

// NewUseCase creates a new news use case
func NewUseCase(
	newsRepo deps.NewsRepository,
	categoryRepo deps.CategoryRepository,
	tagRepo deps.TagRepository,
	logRepo deps.ProcessingLogRepository,
	jobQueue deps.JobQueue,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		newsRepo:     newsRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		logRepo:      logRepo,
		jobQueue:     jobQueue,
		logger:       logger,
	}
}

// Create creates a news item from a direct API request
func (u *UseCase) Create(ctx context.Context, req *dto.CreateNewsRequest) (*entities.News, error) {
	if err := validateFields(req.Title, req.Content, req.Source, req.PublishedAt); err != nil {
		return nil, err
	}

	publishedAt := time.Now()
	if req.PublishedAt != nil {
		publishedAt = *req.PublishedAt
	}

	news := &entities.News{
		Title:       strings.TrimSpace(req.Title),
		Content:     strings.TrimSpace(req.Content),
		Summary:     strings.TrimSpace(req.Summary),
		Source:      req.Source,
		SourceURL:   req.SourceURL,
		Author:      req.Author,
		PublishedAt: publishedAt,
		IsUrgent:    req.IsUrgent,
		IsPublished: true,
		CategoryID:  req.CategoryID,
	}
	if req.ExternalID != "" {
		news.ExternalID = &req.ExternalID
	}

	if err := u.newsRepo.Create(ctx, news); err != nil {
		u.logger.Error().Err(err).
			Str("title", req.Title).
			Msg("Failed to create news")
		return nil, err
	}

	if err := u.attachTags(ctx, news, req.Tags); err != nil {
		u.logger.Warn().Err(err).
			Uint("news_id", news.ID).
			Msg("Failed to attach tags")
	}

	u.logger.Info().
		Uint("news_id", news.ID).
		Str("source", news.Source).
		Msg("News created")

	u.enqueuePipeline(ctx, news)

	return news, nil
}

// Ingest creates a news item arriving from the webhook pipeline, resolving
// category hints and falling back to the default category
func (u *UseCase) Ingest(ctx context.Context, req *dto.IngestRequest) (*dto.IngestResponse, error) {
	if err := validateFields(req.Title, req.Content, req.Source, req.PublishedAt); err != nil {
		return nil, err
	}

	if req.ExternalID != "" {
		exists, err := u.newsRepo.ExistsByExternalID(ctx, req.ExternalID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domainerrors.ErrDuplicateExternalID
		}
	}

	category, err := u.resolveCategory(ctx, req.CategoryHint)
	if err != nil {
		return nil, err
	}

	publishedAt := time.Now()
	if req.PublishedAt != nil {
		publishedAt = *req.PublishedAt
	}

	news := &entities.News{
		Title:       strings.TrimSpace(req.Title),
		Content:     strings.TrimSpace(req.Content),
		Summary:     strings.TrimSpace(req.Summary),
		Source:      req.Source,
		SourceURL:   req.SourceURL,
		Author:      req.Author,
		PublishedAt: publishedAt,
		IsUrgent:    req.IsUrgent,
		IsPublished: true,
		CategoryID:  &category.ID,
	}
	if req.ExternalID != "" {
		news.ExternalID = &req.ExternalID
	}

	if req.SubcatHint != "" {
		if subcategory, err := u.categoryRepo.GetActiveSubcategory(ctx, category.ID, req.SubcatHint); err == nil {
			news.SubcategoryID = &subcategory.ID
		}
	}

	if err := u.newsRepo.Create(ctx, news); err != nil {
		return nil, err
	}

	if err := u.attachTags(ctx, news, req.Tags); err != nil {
		u.logger.Warn().Err(err).
			Uint("news_id", news.ID).
			Msg("Failed to attach tags")
	}

	u.RecordProcessingStage(ctx, news.ID, StageWebhookReceived, "success",
		fmt.Sprintf("News created from webhook source %s", req.Source), 0)

	u.logger.Info().
		Uint("news_id", news.ID).
		Str("source", req.Source).
		Str("category", category.Name).
		Msg("News ingested from webhook")

	u.enqueuePipeline(ctx, news)

	return &dto.IngestResponse{NewsID: news.ID, IsUrgent: news.IsUrgent}, nil
}

// GetByID retrieves a news item
func (u *UseCase) GetByID(ctx context.Context, id uint) (*entities.News, error) {
	return u.newsRepo.GetByID(ctx, id)
}

// List retrieves a paginated news listing; list items exclude full content
func (u *UseCase) List(ctx context.Context, filter deps.ListFilter, basePath string) (*dto.ListNewsResponse, error) {
	items, count, err := u.newsRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	resp := &dto.ListNewsResponse{
		Count: count,
		Results: mapfn.ConvertSlice(items, func(n entities.News) dto.NewsListItem {
			return dto.NewsListItem{
				ID:          n.ID,
				Title:       n.Title,
				Summary:     n.Summary,
				Source:      n.Source,
				Author:      n.Author,
				CategoryID:  n.CategoryID,
				IsUrgent:    n.IsUrgent,
				IsPublished: n.IsPublished,
				WordCount:   n.WordCount,
				ReadingTime: n.ReadingTime,
				ViewCount:   n.ViewCount,
				PublishedAt: n.PublishedAt,
			}
		}),
	}

	if int64(page*pageSize) < count {
		next := fmt.Sprintf("%s?page=%d&page_size=%d", basePath, page+1, pageSize)
		resp.Next = &next
	}
	if page > 1 {
		previous := fmt.Sprintf("%s?page=%d&page_size=%d", basePath, page-1, pageSize)
		resp.Previous = &previous
	}

	return resp, nil
}

// Update applies partial changes to a news item
func (u *UseCase) Update(ctx context.Context, id uint, req *dto.UpdateNewsRequest) (*entities.News, error) {
	news, err := u.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if len(*req.Title) > maxTitleLength {
			return nil, domainerrors.ErrTitleTooLong
		}
		news.Title = *req.Title
	}
	if req.Content != nil {
		if len(*req.Content) > maxContentLength {
			return nil, domainerrors.ErrContentTooLong
		}
		news.Content = *req.Content
	}
	if req.Summary != nil {
		news.Summary = *req.Summary
	}
	if req.Author != nil {
		news.Author = *req.Author
	}
	if req.IsUrgent != nil {
		news.IsUrgent = *req.IsUrgent
	}
	if req.IsPublished != nil {
		news.IsPublished = *req.IsPublished
	}
	if req.CategoryID != nil {
		news.CategoryID = req.CategoryID
	}

	if err := u.newsRepo.Update(ctx, news); err != nil {
		return nil, err
	}

	return news, nil
}

// Delete removes a news item
func (u *UseCase) Delete(ctx context.Context, id uint) error {
	return u.newsRepo.Delete(ctx, id)
}

// RecordView atomically increments the view counter
func (u *UseCase) RecordView(ctx context.Context, id uint) error {
	return u.newsRepo.IncrementViewCount(ctx, id)
}

// RecordShare atomically increments the share counter
func (u *UseCase) RecordShare(ctx context.Context, id uint) error {
	return u.newsRepo.IncrementShareCount(ctx, id)
}

// ListCategories retrieves all active categories
func (u *UseCase) ListCategories(ctx context.Context) ([]entities.Category, error) {
	return u.categoryRepo.ListActive(ctx)
}

// ListTags retrieves all tags ordered by usage
func (u *UseCase) ListTags(ctx context.Context) ([]entities.Tag, error) {
	return u.tagRepo.List(ctx)
}

// RecordProcessingStage appends a processing log entry; failures are logged only
func (u *UseCase) RecordProcessingStage(ctx context.Context, newsID uint, stage, status, message string, processingTime float64) {
	err := u.logRepo.Create(ctx, &entities.NewsProcessingLog{
		NewsID:         newsID,
		Stage:          stage,
		Status:         status,
		Message:        message,
		ProcessingTime: processingTime,
	})
	if err != nil {
		u.logger.Warn().Err(err).
			Uint("news_id", newsID).
			Str("stage", stage).
			Msg("Failed to record processing stage")
	}
}

func (u *UseCase) resolveCategory(ctx context.Context, hint string) (*entities.Category, error) {
	if hint != "" {
		category, err := u.categoryRepo.GetActiveByName(ctx, hint)
		if err == nil {
			return category, nil
		}
	}

	return u.categoryRepo.GetOrCreate(ctx, defaultCategoryName, defaultCategorySlug,
		"Default category for unclassified news")
}

func (u *UseCase) attachTags(ctx context.Context, news *entities.News, names []string) error {
	if len(names) == 0 {
		return nil
	}

	tags := make([]entities.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tag, err := u.tagRepo.GetOrCreate(ctx, name)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}

	if len(tags) == 0 {
		return nil
	}

	if err := u.newsRepo.ReplaceTags(ctx, news, tags); err != nil {
		return err
	}

	for _, tag := range tags {
		if err := u.tagRepo.IncrementUsage(ctx, tag.ID); err != nil {
			u.logger.Warn().Err(err).
				Uint("tag_id", tag.ID).
				Msg("Failed to increment tag usage")
		}
	}

	return nil
}

// enqueuePipeline schedules classification and, for urgent items, notification
// dispatch. Enqueue failures are logged; the created row remains valid.
func (u *UseCase) enqueuePipeline(ctx context.Context, news *entities.News) {
	if !news.IsProcessed {
		if err := u.jobQueue.EnqueueClassification(ctx, news.ID, "hybrid"); err != nil {
			u.logger.Error().Err(err).
				Uint("news_id", news.ID).
				Msg("Failed to enqueue classification")
		}
	}

	if news.IsUrgent {
		if err := u.jobQueue.EnqueueUrgentDispatch(ctx, news.ID); err != nil {
			u.logger.Error().Err(err).
				Uint("news_id", news.ID).
				Msg("Failed to enqueue urgent dispatch")
		}
	}
}

func validateFields(title, content, source string, publishedAt *time.Time) error {
	if strings.TrimSpace(title) == "" {
		return domainerrors.ErrTitleRequired
	}
	if strings.TrimSpace(content) == "" {
		return domainerrors.ErrContentRequired
	}
	if strings.TrimSpace(source) == "" {
		return domainerrors.ErrSourceRequired
	}
	if len(title) > maxTitleLength {
		return domainerrors.ErrTitleTooLong
	}
	if len(content) > maxContentLength {
		return domainerrors.ErrContentTooLong
	}
	if publishedAt != nil && publishedAt.After(time.Now()) {
		return domainerrors.ErrPublishedInFuture
	}
	return nil
}
