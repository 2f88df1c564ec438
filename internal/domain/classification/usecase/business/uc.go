package business

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/classification/deps"
	"github.com/jota-news/news-engine/internal/domain/classification/dto"
	"github.com/jota-news/news-engine/internal/domain/classification/engine"
	"github.com/jota-news/news-engine/internal/domain/classification/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/classification/errors"
	"github.com/jota-news/news-engine/internal/infrastructure/metrics"
)

const (
	// autoAcceptThreshold is the category confidence at or above which a
	// classification is accepted without review.
	autoAcceptThreshold = 0.8

	// subcategoryConfidenceFactor discounts the category confidence when a
	// subcategory is inferred by keyword scan rather than rule target.
	subcategoryConfidenceFactor = 0.8
)

// UseCase implements classification business logic
type UseCase struct {
	ruleRepo     deps.RuleRepository
	modelRepo    deps.ModelRepository
	resultRepo   deps.ResultRepository
	trainingRepo deps.TrainingDataRepository
	statRepo     deps.StatisticRepository
	engine       *engine.Engine
	news         deps.NewsUpdater
	categories   deps.CategoryResolver
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewUseCase creates a new classification usecase
func NewUseCase(
	ruleRepo deps.RuleRepository,
	modelRepo deps.ModelRepository,
	resultRepo deps.ResultRepository,
	trainingRepo deps.TrainingDataRepository,
	statRepo deps.StatisticRepository,
	eng *engine.Engine,
	news deps.NewsUpdater,
	categories deps.CategoryResolver,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		ruleRepo:     ruleRepo,
		modelRepo:    modelRepo,
		resultRepo:   resultRepo,
		trainingRepo: trainingRepo,
		statRepo:     statRepo,
		engine:       eng,
		news:         news,
		categories:   categories,
		metrics:      m,
		logger:       logger.With().Str("component", "classification_usecase").Logger(),
	}
}

// ClassifyNews classifies a single news item with the given method and
// persists the outcome. Already-processed items are skipped and return a nil
// response. Failure to classify is not an error: it is recorded in the
// statistics and the item stays unprocessed.
func (uc *UseCase) ClassifyNews(ctx context.Context, newsID uint, method string) (*dto.ClassifyResponse, error) {
	switch method {
	case entities.MethodKeyword, entities.MethodML, entities.MethodHybrid:
	case "":
		method = entities.MethodHybrid
	default:
		return nil, domainerrors.ErrInvalidMethod
	}

	title, content, isProcessed, _, err := uc.news.GetText(ctx, newsID)
	if err != nil {
		return nil, err
	}
	if isProcessed {
		uc.logger.Debug().
			Uint("news_id", newsID).
			Msg("News already processed, skipping classification")
		return nil, nil
	}

	rules, err := uc.ruleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	outcome := uc.engine.Classify(ctx, title, content, method, rules)

	uc.metrics.ClassificationsTotal.WithLabelValues(outcome.Method).Inc()
	uc.metrics.ClassificationDuration.Observe(outcome.ProcessingTime)

	if err := uc.resolveCategory(ctx, outcome); err != nil {
		return nil, err
	}
	uc.applyHybridAgreement(outcome)

	uc.recordStatistics(ctx, outcome)

	if !outcome.Classified() {
		uc.logger.Info().
			Uint("news_id", newsID).
			Str("method", outcome.Method).
			Msg("No classification strategy matched")
		return &dto.ClassifyResponse{NewsID: newsID}, nil
	}

	uc.resolveSubcategory(ctx, title, content, outcome)
	uc.recordModelUsage(ctx, outcome)

	if outcome.AppliedRuleID != nil {
		if err := uc.ruleRepo.IncrementMatches(ctx, *outcome.AppliedRuleID); err != nil {
			uc.logger.Warn().Err(err).
				Uint("rule_id", *outcome.AppliedRuleID).
				Msg("Failed to increment rule match counter")
		}
	}

	result := &entities.ClassificationResult{
		NewsID:                 newsID,
		Method:                 outcome.Method,
		AppliedRuleID:          outcome.AppliedRuleID,
		AppliedModelID:         outcome.AppliedModelID,
		PredictedCategoryID:    *outcome.CategoryID,
		PredictedSubcategoryID: outcome.SubcategoryID,
		CategoryConfidence:     outcome.CategoryConfidence,
		SubcategoryConfidence:  outcome.SubcategoryConfidence,
		UrgencyConfidence:      outcome.UrgencyConfidence,
		PredictionDetails:      outcome.Details,
		ProcessingTime:         outcome.ProcessingTime,
	}
	if err := uc.resultRepo.Create(ctx, result); err != nil {
		return nil, err
	}

	accepted := outcome.CategoryConfidence >= autoAcceptThreshold
	if accepted {
		if err := uc.acceptResult(ctx, result, outcome.IsUrgent); err != nil {
			return nil, err
		}
	} else {
		// Below threshold the prediction is written for review, but the item
		// stays unprocessed
		err := uc.news.ApplyClassification(ctx, newsID,
			*outcome.CategoryID, outcome.SubcategoryID,
			outcome.CategoryConfidence, outcome.SubcategoryConfidence, outcome.UrgencyConfidence,
			outcome.IsUrgent, false)
		if err != nil {
			return nil, err
		}
	}

	uc.logger.Info().
		Uint("news_id", newsID).
		Uint("result_id", result.ID).
		Str("method", outcome.Method).
		Str("category", outcome.CategoryName).
		Float64("confidence", outcome.CategoryConfidence).
		Bool("accepted", accepted).
		Bool("is_urgent", outcome.IsUrgent).
		Msg("News classified")

	return &dto.ClassifyResponse{
		ResultID:           result.ID,
		NewsID:             newsID,
		Category:           outcome.CategoryName,
		CategoryConfidence: outcome.CategoryConfidence,
		IsUrgent:           outcome.IsUrgent,
		Accepted:           accepted,
	}, nil
}

// Accept marks a classification result as accepted and commits it onto the
// news item. Accepting an already accepted result is a no-op.
func (uc *UseCase) Accept(ctx context.Context, resultID uint) error {
	result, err := uc.resultRepo.GetByID(ctx, resultID)
	if err != nil {
		return err
	}
	if result.IsAccepted {
		return nil
	}

	_, _, _, isUrgent, err := uc.news.GetText(ctx, result.NewsID)
	if err != nil {
		return err
	}

	return uc.acceptResult(ctx, result, isUrgent || result.UrgencyConfidence >= 0.6)
}

// acceptResult runs the acceptance side effects: commit onto the news row,
// flag the result, credit the rule and grow the training corpus.
func (uc *UseCase) acceptResult(ctx context.Context, result *entities.ClassificationResult, isUrgent bool) error {
	err := uc.news.ApplyClassification(ctx, result.NewsID,
		result.PredictedCategoryID, result.PredictedSubcategoryID,
		result.CategoryConfidence, result.SubcategoryConfidence, result.UrgencyConfidence,
		isUrgent, true)
	if err != nil {
		return err
	}

	if err := uc.resultRepo.MarkAccepted(ctx, result.ID); err != nil {
		return err
	}
	result.IsAccepted = true

	uc.metrics.ClassificationAccepted.Inc()

	if result.AppliedRuleID != nil {
		if err := uc.ruleRepo.IncrementSuccessful(ctx, *result.AppliedRuleID); err != nil {
			uc.logger.Warn().Err(err).
				Uint("rule_id", *result.AppliedRuleID).
				Msg("Failed to increment rule success counter")
		}
	}

	training := &entities.ClassificationTrainingData{
		NewsID:          result.NewsID,
		CategoryID:      result.PredictedCategoryID,
		SubcategoryID:   result.PredictedSubcategoryID,
		IsUrgent:        isUrgent,
		Source:          entities.TrainingSourceAccepted,
		ConfidenceScore: result.CategoryConfidence,
	}
	if err := uc.trainingRepo.Create(ctx, training); err != nil {
		uc.logger.Warn().Err(err).
			Uint("result_id", result.ID).
			Msg("Failed to record training data")
	}

	return nil
}

// resolveCategory fills in the missing half of the category reference: a
// rule match carries an ID without a name, a model prediction carries a name
// without an ID.
func (uc *UseCase) resolveCategory(ctx context.Context, outcome *dto.Outcome) error {
	switch {
	case outcome.CategoryID != nil && outcome.CategoryName == "":
		name, err := uc.categories.NameOf(ctx, *outcome.CategoryID)
		if err != nil {
			return err
		}
		outcome.CategoryName = name

	case outcome.CategoryID == nil && outcome.CategoryName != "":
		id, resolvedName, err := uc.categories.ResolveOrCreate(ctx, outcome.CategoryName)
		if err != nil {
			return err
		}
		outcome.CategoryID = &id
		outcome.CategoryName = resolvedName
	}

	return nil
}

// resolveSubcategory scans the category's subcategories when the winning rule
// did not target one.
func (uc *UseCase) resolveSubcategory(ctx context.Context, title, content string, outcome *dto.Outcome) {
	if outcome.SubcategoryID != nil || outcome.CategoryID == nil {
		return
	}

	subcategories, err := uc.categories.SubcategoriesOf(ctx, *outcome.CategoryID)
	if err != nil {
		uc.logger.Warn().Err(err).
			Uint("category_id", *outcome.CategoryID).
			Msg("Failed to load subcategories")
		return
	}

	match := uc.engine.MatchSubcategory(title, content, subcategories)
	if match == nil {
		return
	}

	subcategoryID := match.ID
	outcome.SubcategoryID = &subcategoryID
	outcome.SubcategoryName = match.Name
	outcome.SubcategoryConfidence = outcome.CategoryConfidence * subcategoryConfidenceFactor
}

// applyHybridAgreement boosts the confidence of a keyword-won hybrid outcome
// when the model independently proposed the same category with a higher
// confidence.
func (uc *UseCase) applyHybridAgreement(outcome *dto.Outcome) {
	if outcome.Method != entities.MethodHybrid || outcome.AppliedRuleID == nil {
		return
	}

	mlResult, ok := outcome.Details["ml_result"].(map[string]interface{})
	if !ok {
		return
	}
	mlCategory, _ := mlResult["category"].(string)
	mlConfidence, _ := mlResult["confidence"].(float64)

	if strings.EqualFold(mlCategory, outcome.CategoryName) && mlConfidence > outcome.CategoryConfidence {
		outcome.CategoryConfidence = mlConfidence
	}
}

// recordModelUsage attributes model-backed outcomes to the active trained
// model and bumps its prediction counter.
func (uc *UseCase) recordModelUsage(ctx context.Context, outcome *dto.Outcome) {
	if outcome.Method == entities.MethodKeyword {
		return
	}
	if _, ok := outcome.Details["ml_result"]; !ok {
		return
	}

	model, err := uc.modelRepo.GetActiveTrained(ctx)
	if err != nil || model == nil {
		return
	}

	modelID := model.ID
	outcome.AppliedModelID = &modelID

	if err := uc.modelRepo.IncrementPredictions(ctx, modelID); err != nil {
		uc.logger.Warn().Err(err).
			Uint("model_id", modelID).
			Msg("Failed to increment model prediction counter")
	}
}

func (uc *UseCase) recordStatistics(ctx context.Context, outcome *dto.Outcome) {
	err := uc.statRepo.RecordAttempt(ctx, time.Now().UTC(), outcome.Method,
		outcome.CategoryName, outcome.CategoryConfidence, outcome.ProcessingTime,
		outcome.Classified())
	if err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to record classification statistics")
	}
}
