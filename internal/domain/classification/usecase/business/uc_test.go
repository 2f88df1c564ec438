package business

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/classification/engine"
	"github.com/jota-news/news-engine/internal/domain/classification/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/classification/errors"
	newsentities "github.com/jota-news/news-engine/internal/domain/news/entities"
	"github.com/jota-news/news-engine/internal/infrastructure/metrics"
)

type mockRuleRepo struct {
	listActiveFunc          func(ctx context.Context) ([]entities.ClassificationRule, error)
	incrementMatchesFunc    func(ctx context.Context, id uint) error
	incrementSuccessfulFunc func(ctx context.Context, id uint) error
}

func (m *mockRuleRepo) ListActive(ctx context.Context) ([]entities.ClassificationRule, error) {
	return m.listActiveFunc(ctx)
}

func (m *mockRuleRepo) IncrementMatches(ctx context.Context, id uint) error {
	if m.incrementMatchesFunc != nil {
		return m.incrementMatchesFunc(ctx, id)
	}
	return nil
}

func (m *mockRuleRepo) IncrementSuccessful(ctx context.Context, id uint) error {
	if m.incrementSuccessfulFunc != nil {
		return m.incrementSuccessfulFunc(ctx, id)
	}
	return nil
}

type mockModelRepo struct {
	getActiveTrainedFunc func(ctx context.Context) (*entities.ClassificationModel, error)
}

func (m *mockModelRepo) GetActiveTrained(ctx context.Context) (*entities.ClassificationModel, error) {
	if m.getActiveTrainedFunc != nil {
		return m.getActiveTrainedFunc(ctx)
	}
	return nil, nil
}

func (m *mockModelRepo) IncrementPredictions(ctx context.Context, id uint) error {
	return nil
}

type mockResultRepo struct {
	createFunc       func(ctx context.Context, result *entities.ClassificationResult) error
	getByIDFunc      func(ctx context.Context, id uint) (*entities.ClassificationResult, error)
	markAcceptedFunc func(ctx context.Context, id uint) error
}

func (m *mockResultRepo) Create(ctx context.Context, result *entities.ClassificationResult) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, result)
	}
	result.ID = 1
	return nil
}

func (m *mockResultRepo) GetByID(ctx context.Context, id uint) (*entities.ClassificationResult, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockResultRepo) MarkAccepted(ctx context.Context, id uint) error {
	if m.markAcceptedFunc != nil {
		return m.markAcceptedFunc(ctx, id)
	}
	return nil
}

type mockTrainingRepo struct {
	createFunc func(ctx context.Context, data *entities.ClassificationTrainingData) error
}

func (m *mockTrainingRepo) Create(ctx context.Context, data *entities.ClassificationTrainingData) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, data)
	}
	return nil
}

type mockStatRepo struct {
	recordAttemptFunc func(ctx context.Context, day time.Time, method string, categoryName string, confidence, processingTime float64, succeeded bool) error
}

func (m *mockStatRepo) RecordAttempt(ctx context.Context, day time.Time, method string, categoryName string, confidence, processingTime float64, succeeded bool) error {
	if m.recordAttemptFunc != nil {
		return m.recordAttemptFunc(ctx, day, method, categoryName, confidence, processingTime, succeeded)
	}
	return nil
}

type mockNewsUpdater struct {
	applyFunc   func(ctx context.Context, newsID uint, categoryID uint, subcategoryID *uint, categoryConfidence, subcategoryConfidence, urgencyConfidence float64, isUrgent, markProcessed bool) error
	getTextFunc func(ctx context.Context, newsID uint) (string, string, bool, bool, error)
}

func (m *mockNewsUpdater) ApplyClassification(ctx context.Context, newsID uint, categoryID uint, subcategoryID *uint, categoryConfidence, subcategoryConfidence, urgencyConfidence float64, isUrgent, markProcessed bool) error {
	if m.applyFunc != nil {
		return m.applyFunc(ctx, newsID, categoryID, subcategoryID, categoryConfidence, subcategoryConfidence, urgencyConfidence, isUrgent, markProcessed)
	}
	return nil
}

func (m *mockNewsUpdater) GetText(ctx context.Context, newsID uint) (string, string, bool, bool, error) {
	return m.getTextFunc(ctx, newsID)
}

type mockCategoryResolver struct {
	resolveOrCreateFunc func(ctx context.Context, name string) (uint, string, error)
	nameOfFunc          func(ctx context.Context, id uint) (string, error)
	subcategoriesOfFunc func(ctx context.Context, categoryID uint) ([]newsentities.Subcategory, error)
}

func (m *mockCategoryResolver) ResolveOrCreate(ctx context.Context, name string) (uint, string, error) {
	return m.resolveOrCreateFunc(ctx, name)
}

func (m *mockCategoryResolver) NameOf(ctx context.Context, id uint) (string, error) {
	if m.nameOfFunc != nil {
		return m.nameOfFunc(ctx, id)
	}
	return "Politics", nil
}

func (m *mockCategoryResolver) SubcategoriesOf(ctx context.Context, categoryID uint) ([]newsentities.Subcategory, error) {
	if m.subcategoriesOfFunc != nil {
		return m.subcategoriesOfFunc(ctx, categoryID)
	}
	return nil, nil
}

type usecaseMocks struct {
	rules    *mockRuleRepo
	models   *mockModelRepo
	results  *mockResultRepo
	training *mockTrainingRepo
	stats    *mockStatRepo
	news     *mockNewsUpdater
	resolver *mockCategoryResolver
}

func newTestUseCase(m *usecaseMocks) *UseCase {
	return NewUseCase(
		m.rules, m.models, m.results, m.training, m.stats,
		engine.NewEngine(nil, zerolog.Nop()),
		m.news, m.resolver,
		metrics.GetDefaultMetrics(),
		zerolog.Nop(),
	)
}

func defaultMocks() *usecaseMocks {
	return &usecaseMocks{
		rules: &mockRuleRepo{
			listActiveFunc: func(ctx context.Context) ([]entities.ClassificationRule, error) {
				return []entities.ClassificationRule{
					{
						ID:                  1,
						Name:                "politics",
						TargetCategoryID:    10,
						Keywords:            []string{"election", "congress"},
						Weight:              1.0,
						ConfidenceThreshold: 0.5,
						IsActive:            true,
					},
				}, nil
			},
		},
		models:   &mockModelRepo{},
		results:  &mockResultRepo{},
		training: &mockTrainingRepo{},
		stats:    &mockStatRepo{},
		news: &mockNewsUpdater{
			getTextFunc: func(ctx context.Context, newsID uint) (string, string, bool, bool, error) {
				return "Congress vote", "The congress passed an election reform bill", false, false, nil
			},
		},
		resolver: &mockCategoryResolver{},
	}
}

func TestClassifyNewsAutoAccepts(t *testing.T) {
	m := defaultMocks()

	var appliedMarkProcessed bool
	var acceptedResultID uint
	var trainingRows int

	m.news.applyFunc = func(ctx context.Context, newsID uint, categoryID uint, subcategoryID *uint, cc, sc, uc float64, isUrgent, markProcessed bool) error {
		appliedMarkProcessed = markProcessed
		if categoryID != 10 {
			t.Errorf("expected category 10, got %d", categoryID)
		}
		return nil
	}
	m.results.markAcceptedFunc = func(ctx context.Context, id uint) error {
		acceptedResultID = id
		return nil
	}
	m.training.createFunc = func(ctx context.Context, data *entities.ClassificationTrainingData) error {
		trainingRows++
		if data.Source != entities.TrainingSourceAccepted {
			t.Errorf("expected training source accepted, got %q", data.Source)
		}
		return nil
	}

	uc := newTestUseCase(m)

	// Both keywords match: confidence 1.0, above the auto-accept threshold
	resp, err := uc.ClassifyNews(context.Background(), 42, entities.MethodKeyword)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil {
		t.Fatal("expected a response")
	}
	if !resp.Accepted {
		t.Error("expected the classification to be auto-accepted")
	}
	if !appliedMarkProcessed {
		t.Error("auto-accept must mark the news item processed")
	}
	if acceptedResultID != 1 {
		t.Errorf("expected result 1 marked accepted, got %d", acceptedResultID)
	}
	if trainingRows != 1 {
		t.Errorf("expected one training row, got %d", trainingRows)
	}
}

func TestClassifyNewsBelowThresholdStaysUnprocessed(t *testing.T) {
	m := defaultMocks()
	m.rules.listActiveFunc = func(ctx context.Context) ([]entities.ClassificationRule, error) {
		return []entities.ClassificationRule{
			{
				ID:                  1,
				Name:                "politics",
				TargetCategoryID:    10,
				Keywords:            []string{"election", "congress", "senate", "ballot"},
				Weight:              1.0,
				ConfidenceThreshold: 0.4,
				IsActive:            true,
			},
		}, nil
	}

	var appliedMarkProcessed, markAcceptedCalled bool
	m.news.applyFunc = func(ctx context.Context, newsID uint, categoryID uint, subcategoryID *uint, cc, sc, uc float64, isUrgent, markProcessed bool) error {
		appliedMarkProcessed = markProcessed
		return nil
	}
	m.results.markAcceptedFunc = func(ctx context.Context, id uint) error {
		markAcceptedCalled = true
		return nil
	}

	uc := newTestUseCase(m)

	// Two of four keywords: confidence 0.5, under the auto-accept threshold
	resp, err := uc.ClassifyNews(context.Background(), 42, entities.MethodKeyword)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Accepted {
		t.Error("expected the classification to await review")
	}
	if appliedMarkProcessed {
		t.Error("below-threshold classification must not mark the item processed")
	}
	if markAcceptedCalled {
		t.Error("below-threshold classification must not be marked accepted")
	}
}

func TestClassifyNewsSkipsProcessed(t *testing.T) {
	m := defaultMocks()
	m.news.getTextFunc = func(ctx context.Context, newsID uint) (string, string, bool, bool, error) {
		return "Title", "Content", true, false, nil
	}
	m.rules.listActiveFunc = func(ctx context.Context) ([]entities.ClassificationRule, error) {
		t.Fatal("rules must not be loaded for processed items")
		return nil, nil
	}

	uc := newTestUseCase(m)

	resp, err := uc.ClassifyNews(context.Background(), 42, entities.MethodKeyword)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != nil {
		t.Errorf("expected nil response for a processed item, got %+v", resp)
	}
}

func TestClassifyNewsInvalidMethod(t *testing.T) {
	uc := newTestUseCase(defaultMocks())

	_, err := uc.ClassifyNews(context.Background(), 42, "quantum")
	if err != domainerrors.ErrInvalidMethod {
		t.Errorf("expected ErrInvalidMethod, got %v", err)
	}
}

func TestClassifyNewsNoMatchRecordsFailure(t *testing.T) {
	m := defaultMocks()
	m.news.getTextFunc = func(ctx context.Context, newsID uint) (string, string, bool, bool, error) {
		return "Weather", "Sunny with light winds", false, false, nil
	}

	var recordedSuccess *bool
	m.stats.recordAttemptFunc = func(ctx context.Context, day time.Time, method string, categoryName string, confidence, processingTime float64, succeeded bool) error {
		recordedSuccess = &succeeded
		return nil
	}
	m.results.createFunc = func(ctx context.Context, result *entities.ClassificationResult) error {
		t.Fatal("no result row must be written for an unclassified item")
		return nil
	}

	uc := newTestUseCase(m)

	resp, err := uc.ClassifyNews(context.Background(), 42, entities.MethodKeyword)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || resp.ResultID != 0 {
		t.Errorf("expected an empty response, got %+v", resp)
	}
	if recordedSuccess == nil || *recordedSuccess {
		t.Error("expected a failed attempt in the statistics")
	}
}

func TestAcceptIsIdempotent(t *testing.T) {
	m := defaultMocks()

	var applyCalls, markCalls int
	m.results.getByIDFunc = func(ctx context.Context, id uint) (*entities.ClassificationResult, error) {
		return &entities.ClassificationResult{
			ID:                  id,
			NewsID:              42,
			PredictedCategoryID: 10,
			CategoryConfidence:  0.7,
			IsAccepted:          true,
		}, nil
	}
	m.news.applyFunc = func(ctx context.Context, newsID uint, categoryID uint, subcategoryID *uint, cc, sc, uc float64, isUrgent, markProcessed bool) error {
		applyCalls++
		return nil
	}
	m.results.markAcceptedFunc = func(ctx context.Context, id uint) error {
		markCalls++
		return nil
	}

	uc := newTestUseCase(m)

	if err := uc.Accept(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applyCalls != 0 || markCalls != 0 {
		t.Errorf("accepting an accepted result must be a no-op, got %d apply and %d mark calls", applyCalls, markCalls)
	}
}

func TestAcceptCommitsResult(t *testing.T) {
	m := defaultMocks()

	ruleID := uint(5)
	var markProcessed bool
	var creditedRule uint
	var trainingRows int

	m.results.getByIDFunc = func(ctx context.Context, id uint) (*entities.ClassificationResult, error) {
		return &entities.ClassificationResult{
			ID:                  id,
			NewsID:              42,
			AppliedRuleID:       &ruleID,
			PredictedCategoryID: 10,
			CategoryConfidence:  0.7,
		}, nil
	}
	m.news.applyFunc = func(ctx context.Context, newsID uint, categoryID uint, subcategoryID *uint, cc, sc, uc float64, isUrgent, markProcessedArg bool) error {
		markProcessed = markProcessedArg
		return nil
	}
	m.rules.incrementSuccessfulFunc = func(ctx context.Context, id uint) error {
		creditedRule = id
		return nil
	}
	m.training.createFunc = func(ctx context.Context, data *entities.ClassificationTrainingData) error {
		trainingRows++
		return nil
	}

	uc := newTestUseCase(m)

	if err := uc.Accept(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !markProcessed {
		t.Error("accept must mark the news item processed")
	}
	if creditedRule != 5 {
		t.Errorf("expected rule 5 credited, got %d", creditedRule)
	}
	if trainingRows != 1 {
		t.Errorf("expected one training row, got %d", trainingRows)
	}
}
