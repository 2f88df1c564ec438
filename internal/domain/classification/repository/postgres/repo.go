package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jota-news/news-engine/internal/domain/classification/deps"
	"github.com/jota-news/news-engine/internal/domain/classification/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/classification/errors"
)

// ruleRepository implements deps.RuleRepository using GORM
type ruleRepository struct {
	db *gorm.DB
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db *gorm.DB) deps.RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) ListActive(ctx context.Context) ([]entities.ClassificationRule, error) {
	var rules []entities.ClassificationRule

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC, created_at ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, domainerrors.ErrDatabaseOperation
	}

	return rules, nil
}

func (r *ruleRepository) IncrementMatches(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&entities.ClassificationRule{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_matches": gorm.Expr("total_matches + ?", 1),
			"last_used":     time.Now(),
		}).Error
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}

func (r *ruleRepository) IncrementSuccessful(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&entities.ClassificationRule{}).
		Where("id = ?", id).
		UpdateColumn("successful_classifications", gorm.Expr("successful_classifications + ?", 1)).Error
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}

// modelRepository implements deps.ModelRepository using GORM
type modelRepository struct {
	db *gorm.DB
}

// NewModelRepository creates a new model repository
func NewModelRepository(db *gorm.DB) deps.ModelRepository {
	return &modelRepository{db: db}
}

func (r *modelRepository) GetActiveTrained(ctx context.Context) (*entities.ClassificationModel, error) {
	var model entities.ClassificationModel

	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_trained = ?", true, true).
		Order("last_trained DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domainerrors.ErrDatabaseOperation
	}

	return &model, nil
}

func (r *modelRepository) IncrementPredictions(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&entities.ClassificationModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_predictions": gorm.Expr("total_predictions + ?", 1),
			"last_used":         time.Now(),
		}).Error
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}

// resultRepository implements deps.ResultRepository using GORM
type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository creates a new classification result repository
func NewResultRepository(db *gorm.DB) deps.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(ctx context.Context, result *entities.ClassificationResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return domainerrors.ErrDatabaseOperation
	}
	return nil
}

func (r *resultRepository) GetByID(ctx context.Context, id uint) (*entities.ClassificationResult, error) {
	var result entities.ClassificationResult

	err := r.db.WithContext(ctx).First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrResultNotFound
		}
		return nil, domainerrors.ErrDatabaseOperation
	}

	return &result, nil
}

func (r *resultRepository) MarkAccepted(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&entities.ClassificationResult{}).
		Where("id = ?", id).
		UpdateColumn("is_accepted", true).Error
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}

// trainingDataRepository implements deps.TrainingDataRepository using GORM
type trainingDataRepository struct {
	db *gorm.DB
}

// NewTrainingDataRepository creates a new training data repository
func NewTrainingDataRepository(db *gorm.DB) deps.TrainingDataRepository {
	return &trainingDataRepository{db: db}
}

func (r *trainingDataRepository) Create(ctx context.Context, data *entities.ClassificationTrainingData) error {
	if err := r.db.WithContext(ctx).Create(data).Error; err != nil {
		return domainerrors.ErrDatabaseOperation
	}
	return nil
}

// statisticRepository implements deps.StatisticRepository using GORM
type statisticRepository struct {
	db *gorm.DB
}

// NewStatisticRepository creates a new statistics repository
func NewStatisticRepository(db *gorm.DB) deps.StatisticRepository {
	return &statisticRepository{db: db}
}

// RecordAttempt folds a single attempt into the day's rollup row inside a
// transaction, creating the row on first use. Running averages are recomputed
// from the previous totals.
func (r *statisticRepository) RecordAttempt(ctx context.Context, day time.Time, method string, categoryName string, confidence, processingTime float64, succeeded bool) error {
	day = day.Truncate(24 * time.Hour)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stat entities.ClassificationStatistic

		err := tx.Where("date = ?", day).First(&stat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stat = entities.ClassificationStatistic{
				Date:              day,
				CategoryBreakdown: make(map[string]uint),
			}
		} else if err != nil {
			return err
		}

		previous := float64(stat.TotalClassifications)
		stat.TotalClassifications++
		if succeeded {
			stat.SuccessfulClassifications++
		} else {
			stat.FailedClassifications++
		}

		switch method {
		case entities.MethodKeyword:
			stat.KeywordClassifications++
		case entities.MethodML:
			stat.MLClassifications++
		case entities.MethodHybrid:
			stat.HybridClassifications++
		case entities.MethodManual:
			stat.ManualClassifications++
		}

		total := previous + 1
		stat.AvgProcessingTime = (stat.AvgProcessingTime*previous + processingTime) / total
		stat.AvgConfidenceScore = (stat.AvgConfidenceScore*previous + confidence) / total

		if categoryName != "" {
			if stat.CategoryBreakdown == nil {
				stat.CategoryBreakdown = make(map[string]uint)
			}
			stat.CategoryBreakdown[categoryName]++
		}

		return tx.Save(&stat).Error
	})
	if err != nil {
		return domainerrors.ErrDatabaseOperation
	}

	return nil
}
