package engine

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/classification/dto"
	"github.com/jota-news/news-engine/internal/domain/classification/entities"
	newsentities "github.com/jota-news/news-engine/internal/domain/news/entities"
)

type mockInferenceClient struct {
	predictFunc func(ctx context.Context, title, content string) (*dto.ModelPrediction, error)
}

func (m *mockInferenceClient) Predict(ctx context.Context, title, content string) (*dto.ModelPrediction, error) {
	return m.predictFunc(ctx, title, content)
}

func newTestEngine(inference *mockInferenceClient) *Engine {
	if inference == nil {
		return NewEngine(nil, zerolog.Nop())
	}
	return NewEngine(inference, zerolog.Nop())
}

func politicsRule() entities.ClassificationRule {
	return entities.ClassificationRule{
		ID:                  1,
		Name:                "politics",
		TargetCategoryID:    10,
		Keywords:            []string{"election", "congress"},
		Weight:              1.0,
		ConfidenceThreshold: 0.5,
		IsActive:            true,
		Priority:            10,
	}
}

func TestClassifyKeywordFullMatch(t *testing.T) {
	e := newTestEngine(nil)
	rules := []entities.ClassificationRule{politicsRule()}

	outcome := e.Classify(context.Background(), "Congress vote", "The congress passed an election reform bill", entities.MethodKeyword, rules)

	if !outcome.Classified() {
		t.Fatal("expected a classified outcome")
	}
	if outcome.CategoryID == nil || *outcome.CategoryID != 10 {
		t.Errorf("expected category 10, got %v", outcome.CategoryID)
	}
	if outcome.CategoryConfidence != 1.0 {
		t.Errorf("expected confidence 1.0 for a full match, got %f", outcome.CategoryConfidence)
	}
	if outcome.AppliedRuleID == nil || *outcome.AppliedRuleID != 1 {
		t.Errorf("expected applied rule 1, got %v", outcome.AppliedRuleID)
	}
}

func TestClassifyKeywordPartialMatch(t *testing.T) {
	e := newTestEngine(nil)
	rule := politicsRule()
	rule.ConfidenceThreshold = 0.4
	rules := []entities.ClassificationRule{rule}

	outcome := e.Classify(context.Background(), "Vote", "The congress convened today", entities.MethodKeyword, rules)

	if !outcome.Classified() {
		t.Fatal("expected a classified outcome")
	}
	if outcome.CategoryConfidence != 0.5 {
		t.Errorf("expected confidence 0.5 for one of two keywords, got %f", outcome.CategoryConfidence)
	}
}

func TestClassifyKeywordBelowThreshold(t *testing.T) {
	e := newTestEngine(nil)
	rule := politicsRule()
	// One of two keywords scores 0.5, just under the raised threshold.
	// A score equal to the threshold qualifies, so 0.5 vs 0.5 would match.
	rule.ConfidenceThreshold = 0.6
	rules := []entities.ClassificationRule{rule}

	outcome := e.Classify(context.Background(), "Vote", "The congress convened today", entities.MethodKeyword, rules)

	if outcome.Classified() {
		t.Errorf("expected an unclassified outcome, got category %v with confidence %f", outcome.CategoryID, outcome.CategoryConfidence)
	}
}

func TestClassifyKeywordScoreAtThreshold(t *testing.T) {
	e := newTestEngine(nil)
	rules := []entities.ClassificationRule{politicsRule()}

	outcome := e.Classify(context.Background(), "Vote", "The congress convened today", entities.MethodKeyword, rules)

	if !outcome.Classified() {
		t.Fatal("expected a score equal to the threshold to classify")
	}
	if outcome.CategoryConfidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %f", outcome.CategoryConfidence)
	}
}

func TestClassifyNoRules(t *testing.T) {
	e := newTestEngine(nil)

	outcome := e.Classify(context.Background(), "Title", "Content", entities.MethodKeyword, nil)

	if outcome.Classified() {
		t.Error("expected an unclassified outcome with no rules")
	}
	if outcome.CategoryConfidence != 0 {
		t.Errorf("expected confidence 0, got %f", outcome.CategoryConfidence)
	}
}

func TestClassifyRuleEvaluationOrder(t *testing.T) {
	e := newTestEngine(nil)
	first := politicsRule()
	second := politicsRule()
	second.ID = 2
	second.Name = "politics-broad"
	second.TargetCategoryID = 20

	// Rules arrive pre-sorted; the first match in order wins
	rules := []entities.ClassificationRule{first, second}

	outcome := e.Classify(context.Background(), "Election", "The congress passed an election reform bill", entities.MethodKeyword, rules)

	if outcome.CategoryID == nil || *outcome.CategoryID != 10 {
		t.Errorf("expected the first rule's category 10, got %v", outcome.CategoryID)
	}
}

func TestClassifySkipsInactiveRules(t *testing.T) {
	e := newTestEngine(nil)
	rule := politicsRule()
	rule.IsActive = false

	outcome := e.Classify(context.Background(), "Congress", "The congress passed an election reform bill", entities.MethodKeyword, []entities.ClassificationRule{rule})

	if outcome.Classified() {
		t.Error("expected inactive rule to be skipped")
	}
}

func TestClassifyRequiresTitleMatch(t *testing.T) {
	e := newTestEngine(nil)
	rule := politicsRule()
	rule.RequiresTitleMatch = true

	outcome := e.Classify(context.Background(), "Daily digest", "The congress passed an election reform bill", entities.MethodKeyword, []entities.ClassificationRule{rule})
	if outcome.Classified() {
		t.Error("expected no match when keywords only appear in the content")
	}

	outcome = e.Classify(context.Background(), "Congress and election news", "More details inside", entities.MethodKeyword, []entities.ClassificationRule{rule})
	if !outcome.Classified() {
		t.Error("expected a match when a keyword appears in the title")
	}
}

func TestClassifyCaseSensitiveRule(t *testing.T) {
	e := newTestEngine(nil)
	rule := politicsRule()
	rule.CaseSensitive = true
	rule.Keywords = []string{"Congress"}

	outcome := e.Classify(context.Background(), "news", "the congress passed a bill", entities.MethodKeyword, []entities.ClassificationRule{rule})
	if outcome.Classified() {
		t.Error("expected case-sensitive rule to miss lowercase text")
	}

	outcome = e.Classify(context.Background(), "news", "the Congress passed a bill", entities.MethodKeyword, []entities.ClassificationRule{rule})
	if !outcome.Classified() {
		t.Error("expected case-sensitive rule to match exact casing")
	}
}

func TestClassifyPatternRule(t *testing.T) {
	e := newTestEngine(nil)
	rule := entities.ClassificationRule{
		ID:                  3,
		Name:                "finance-tickers",
		TargetCategoryID:    30,
		Patterns:            []string{`\$[A-Z]{2,5}\b`},
		Weight:              1.0,
		ConfidenceThreshold: 0.5,
		IsActive:            true,
		CaseSensitive:       true,
	}

	outcome := e.Classify(context.Background(), "Markets", "Shares of $ACME jumped today", entities.MethodKeyword, []entities.ClassificationRule{rule})

	if !outcome.Classified() {
		t.Fatal("expected pattern rule to match")
	}
	if outcome.CategoryConfidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", outcome.CategoryConfidence)
	}
}

func TestClassifyInvalidPatternSkipped(t *testing.T) {
	e := newTestEngine(nil)
	rule := politicsRule()
	rule.Patterns = []string{"[invalid"}

	// Two keywords plus one broken pattern: hits/total = 2/3
	outcome := e.Classify(context.Background(), "Congress", "The congress passed an election reform bill", entities.MethodKeyword, []entities.ClassificationRule{rule})

	if !outcome.Classified() {
		t.Fatal("expected keywords to still match")
	}
	expected := 2.0 / 3.0
	if diff := outcome.CategoryConfidence - expected; diff > 0.001 || diff < -0.001 {
		t.Errorf("expected confidence about %f, got %f", expected, outcome.CategoryConfidence)
	}
}

func TestClassifyMLMethod(t *testing.T) {
	inference := &mockInferenceClient{
		predictFunc: func(ctx context.Context, title, content string) (*dto.ModelPrediction, error) {
			return &dto.ModelPrediction{Category: "Technology", Confidence: 0.9}, nil
		},
	}
	e := newTestEngine(inference)

	outcome := e.Classify(context.Background(), "Chips", "New processor released", entities.MethodML, nil)

	if outcome.CategoryName != "Technology" {
		t.Errorf("expected category Technology, got %q", outcome.CategoryName)
	}
	if outcome.CategoryConfidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", outcome.CategoryConfidence)
	}
	if outcome.CategoryID != nil {
		t.Error("model outcomes carry a name, not an ID")
	}
}

func TestClassifyMLUnavailable(t *testing.T) {
	e := newTestEngine(nil)

	outcome := e.Classify(context.Background(), "Chips", "New processor released", entities.MethodML, nil)

	if outcome.Classified() {
		t.Error("expected an unclassified outcome without an inference client")
	}
}

func TestClassifyHybridModelWins(t *testing.T) {
	inference := &mockInferenceClient{
		predictFunc: func(ctx context.Context, title, content string) (*dto.ModelPrediction, error) {
			return &dto.ModelPrediction{Category: "Economy", Confidence: 0.95}, nil
		},
	}
	e := newTestEngine(inference)
	rule := politicsRule()
	rule.ConfidenceThreshold = 0.4

	// Keyword scores 0.5, model 0.95: the model is clearly ahead
	outcome := e.Classify(context.Background(), "Vote", "The congress convened today", entities.MethodHybrid, []entities.ClassificationRule{rule})

	if outcome.CategoryName != "Economy" {
		t.Errorf("expected the model category, got %q", outcome.CategoryName)
	}
	if outcome.AppliedRuleID != nil {
		t.Error("model-won outcome must not carry a rule attribution")
	}
}

func TestClassifyHybridNearTiePrefersKeyword(t *testing.T) {
	inference := &mockInferenceClient{
		predictFunc: func(ctx context.Context, title, content string) (*dto.ModelPrediction, error) {
			return &dto.ModelPrediction{Category: "Economy", Confidence: 0.52}, nil
		},
	}
	e := newTestEngine(inference)
	rule := politicsRule()
	rule.ConfidenceThreshold = 0.4

	// Keyword 0.5 vs model 0.52 is within the tie margin
	outcome := e.Classify(context.Background(), "Vote", "The congress convened today", entities.MethodHybrid, []entities.ClassificationRule{rule})

	if outcome.CategoryID == nil || *outcome.CategoryID != 10 {
		t.Errorf("expected keyword category 10 on a near-tie, got %v", outcome.CategoryID)
	}
	if outcome.AppliedRuleID == nil {
		t.Error("keyword-won outcome must carry the rule attribution")
	}
}

func TestClassifyHybridKeywordOnly(t *testing.T) {
	inference := &mockInferenceClient{
		predictFunc: func(ctx context.Context, title, content string) (*dto.ModelPrediction, error) {
			return nil, nil
		},
	}
	e := newTestEngine(inference)

	outcome := e.Classify(context.Background(), "Congress", "The congress passed an election reform bill", entities.MethodHybrid, []entities.ClassificationRule{politicsRule()})

	if outcome.CategoryID == nil || *outcome.CategoryID != 10 {
		t.Errorf("expected keyword category 10, got %v", outcome.CategoryID)
	}
}

func TestClassifyUrgency(t *testing.T) {
	e := newTestEngine(nil)

	tests := []struct {
		name     string
		title    string
		content  string
		isUrgent bool
	}{
		{
			name:     "breaking title",
			title:    "Breaking: dam failure upstream",
			content:  "Authorities issued an urgent evacuation order",
			isUrgent: true,
		},
		{
			name:     "single strong indicator",
			title:    "Urgent recall notice",
			content:  "Details to follow",
			isUrgent: true,
		},
		{
			name:     "single weak indicator",
			title:    "Important budget notes",
			content:  "The committee reviewed the annual budget",
			isUrgent: false,
		},
		{
			name:     "time sensitive pattern plus indicator",
			title:    "Alert issued",
			content:  "Residents have 2 hours to leave the area",
			isUrgent: true,
		},
		{
			name:     "calm text",
			title:    "Museum reopens",
			content:  "The renovated museum welcomes visitors again",
			isUrgent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isUrgent, confidence := e.ClassifyUrgency(tt.title, tt.content)
			if isUrgent != tt.isUrgent {
				t.Errorf("expected is_urgent=%v, got %v (confidence %f)", tt.isUrgent, isUrgent, confidence)
			}
			if confidence < 0 || confidence > 1 {
				t.Errorf("confidence out of range: %f", confidence)
			}
		})
	}
}

func TestMatchSubcategory(t *testing.T) {
	e := newTestEngine(nil)
	subcategories := []newsentities.Subcategory{
		{ID: 1, Name: "Elections", Keywords: []string{"election", "ballot"}, IsActive: true},
		{ID: 2, Name: "Judiciary", Keywords: []string{"court", "ruling"}, IsActive: true},
		{ID: 3, Name: "Inactive", Keywords: []string{"election"}, IsActive: false},
	}

	match := e.MatchSubcategory("Court ruling due", "The court publishes its ruling tomorrow", subcategories)
	if match == nil || match.ID != 2 {
		t.Fatalf("expected subcategory 2, got %v", match)
	}

	match = e.MatchSubcategory("Weather", "Sunny with light winds", subcategories)
	if match != nil {
		t.Errorf("expected no subcategory match, got %v", match.ID)
	}
}
