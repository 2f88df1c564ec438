package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/jota-news/news-engine/internal/domain/news/deps"
	"github.com/jota-news/news-engine/internal/domain/news/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/news/errors"
)

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *gorm.DB) deps.NewsRepository {
	return &newsRepository{
		db: db,
	}
}

// Create creates a news item
func (r *newsRepository) Create(ctx context.Context, news *entities.News) error {
	result := r.db.WithContext(ctx).Create(news)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrDuplicateExternalID
		}
		return domainerrors.ErrDatabaseOperation
	}
	return nil
}

// GetByID retrieves news by ID
func (r *newsRepository) GetByID(ctx context.Context, id uint) (*entities.News, error) {
	var news entities.News
	result := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Preload("Tags").
		First(&news, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNewsNotFound
		}
		return nil, domainerrors.ErrDatabaseOperation
	}
	return &news, nil
}

// ExistsByExternalID checks whether a news item with the external ID exists
func (r *newsRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entities.News{}).
		Where("external_id = ?", externalID).
		Count(&count)

	if result.Error != nil {
		return false, domainerrors.ErrDatabaseOperation
	}

	return count > 0, nil
}

// List retrieves a page of news and the total count
func (r *newsRepository) List(ctx context.Context, filter deps.ListFilter) ([]entities.News, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.News{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.IsUrgent != nil {
		query = query.Where("is_urgent = ?", *filter.IsUrgent)
	}
	if filter.IsPublished != nil {
		query = query.Where("is_published = ?", *filter.IsPublished)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, domainerrors.ErrDatabaseOperation
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var items []entities.News
	result := query.
		Order("published_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items)
	if result.Error != nil {
		return nil, 0, domainerrors.ErrDatabaseOperation
	}

	return items, count, nil
}

// Update persists changes to a news item
func (r *newsRepository) Update(ctx context.Context, news *entities.News) error {
	result := r.db.WithContext(ctx).Save(news)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrDuplicateExternalID
		}
		return domainerrors.ErrDatabaseOperation
	}
	return nil
}

// Delete soft-deletes a news item
func (r *newsRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.News{}, id)
	if result.Error != nil {
		return domainerrors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNewsNotFound
	}
	return nil
}

// IncrementViewCount atomically increments the view counter
func (r *newsRepository) IncrementViewCount(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&entities.News{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return domainerrors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNewsNotFound
	}
	return nil
}

// IncrementShareCount atomically increments the share counter
func (r *newsRepository) IncrementShareCount(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&entities.News{}).
		Where("id = ?", id).
		UpdateColumn("share_count", gorm.Expr("share_count + ?", 1))
	if result.Error != nil {
		return domainerrors.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNewsNotFound
	}
	return nil
}

// ReplaceTags sets the tag associations for a news item
func (r *newsRepository) ReplaceTags(ctx context.Context, news *entities.News, tags []entities.Tag) error {
	if err := r.db.WithContext(ctx).Model(news).Association("Tags").Replace(tags); err != nil {
		return domainerrors.ErrDatabaseOperation
	}
	return nil
}

// categoryRepository implements deps.CategoryRepository
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) deps.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// GetByID retrieves a category by ID
func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*entities.Category, error) {
	var category entities.Category
	result := r.db.WithContext(ctx).First(&category, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrCategoryNotFound
		}
		return nil, domainerrors.ErrDatabaseOperation
	}
	return &category, nil
}

// GetActiveByName retrieves an active category by case-insensitive name
func (r *categoryRepository) GetActiveByName(ctx context.Context, name string) (*entities.Category, error) {
	var category entities.Category
	result := r.db.WithContext(ctx).
		Where("LOWER(name) = ? AND is_active = ?", strings.ToLower(name), true).
		First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrCategoryNotFound
		}
		return nil, domainerrors.ErrDatabaseOperation
	}
	return &category, nil
}

// GetOrCreate retrieves a category by name or creates it
func (r *categoryRepository) GetOrCreate(ctx context.Context, name, slug, description string) (*entities.Category, error) {
	category, err := r.GetActiveByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, domainerrors.ErrCategoryNotFound) {
		return nil, err
	}

	created := &entities.Category{
		Name:        name,
		Slug:        slug,
		Description: description,
		IsActive:    true,
	}
	result := r.db.WithContext(ctx).Create(created)
	if result.Error != nil {
		// Concurrent creation loses the race; re-read the winner
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return r.GetActiveByName(ctx, name)
		}
		return nil, domainerrors.ErrDatabaseOperation
	}
	return created, nil
}

// ListActive retrieves all active categories
func (r *categoryRepository) ListActive(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories)
	if result.Error != nil {
		return nil, domainerrors.ErrDatabaseOperation
	}
	return categories, nil
}

// GetActiveSubcategory retrieves an active subcategory by name within a category
func (r *categoryRepository) GetActiveSubcategory(ctx context.Context, categoryID uint, name string) (*entities.Subcategory, error) {
	var subcategory entities.Subcategory
	result := r.db.WithContext(ctx).
		Where("category_id = ? AND LOWER(name) = ? AND is_active = ?", categoryID, strings.ToLower(name), true).
		First(&subcategory)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrCategoryNotFound
		}
		return nil, domainerrors.ErrDatabaseOperation
	}
	return &subcategory, nil
}

// ListActiveSubcategories retrieves active subcategories of a category
func (r *categoryRepository) ListActiveSubcategories(ctx context.Context, categoryID uint) ([]entities.Subcategory, error) {
	var subcategories []entities.Subcategory
	result := r.db.WithContext(ctx).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("name ASC").
		Find(&subcategories)
	if result.Error != nil {
		return nil, domainerrors.ErrDatabaseOperation
	}
	return subcategories, nil
}

// tagRepository implements deps.TagRepository
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) deps.TagRepository {
	return &tagRepository{
		db: db,
	}
}

// GetOrCreate retrieves a tag by name or creates it
func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*entities.Tag, error) {
	var tag entities.Tag
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&tag)
	if result.Error == nil {
		return &tag, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, domainerrors.ErrDatabaseOperation
	}

	tag = entities.Tag{
		Name: name,
		Slug: strings.ToLower(strings.ReplaceAll(name, " ", "-")),
	}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing entities.Tag
			if rerr := r.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error; rerr == nil {
				return &existing, nil
			}
		}
		return nil, domainerrors.ErrDatabaseOperation
	}
	return &tag, nil
}

// IncrementUsage atomically increments the tag usage counter
func (r *tagRepository) IncrementUsage(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
	if result.Error != nil {
		return domainerrors.ErrDatabaseOperation
	}
	return nil
}

// List retrieves all tags ordered by usage
func (r *tagRepository) List(ctx context.Context) ([]entities.Tag, error) {
	var tags []entities.Tag
	result := r.db.WithContext(ctx).
		Order("usage_count DESC, name ASC").
		Find(&tags)
	if result.Error != nil {
		return nil, domainerrors.ErrDatabaseOperation
	}
	return tags, nil
}

// processingLogRepository implements deps.ProcessingLogRepository
type processingLogRepository struct {
	db *gorm.DB
}

// NewProcessingLogRepository creates a new processing log repository
func NewProcessingLogRepository(db *gorm.DB) deps.ProcessingLogRepository {
	return &processingLogRepository{
		db: db,
	}
}

// Create appends a processing log entry
func (r *processingLogRepository) Create(ctx context.Context, log *entities.NewsProcessingLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return domainerrors.ErrDatabaseOperation
	}
	return nil
}
