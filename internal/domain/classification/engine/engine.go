// Package engine implements the multi-strategy news classifier: keyword
// rules, trained-model inference and a deterministic hybrid merge, plus an
// independent urgency pass.
package engine

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/classification/deps"
	"github.com/jota-news/news-engine/internal/domain/classification/dto"
	"github.com/jota-news/news-engine/internal/domain/classification/entities"
	newsentities "github.com/jota-news/news-engine/internal/domain/news/entities"
)

const (
	// hybridEpsilon is the confidence margin under which keyword and model
	// results count as a tie; the keyword result wins ties because it is
	// deterministic and explainable.
	hybridEpsilon = 0.05

	// urgencyThreshold marks a text urgent when the weighted score reaches it
	urgencyThreshold = 0.6

	subcategoryConfidenceFactor = 0.8
)

// urgentIndicators weight tokens signalling urgency
var urgentIndicators = map[string]float64{
	"urgent":    1.0,
	"breaking":  1.0,
	"emergency": 0.9,
	"critical":  0.8,
	"now":       0.8,
	"alert":     0.7,
	"severe":    0.7,
	"attention": 0.6,
	"important": 0.5,
}

// timeSensitivePatterns each add 0.5 to the urgency score
var timeSensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*hours?`),
	regexp.MustCompile(`\d+\s*minutes?`),
	regexp.MustCompile(`right\s+now`),
	regexp.MustCompile(`just\s+in`),
	regexp.MustCompile(`moments?\s+ago`),
}

// Engine applies classification strategies to (title, content) pairs.
// It never returns an error to callers: missing rules or a failing model
// degrade to an unclassified outcome with confidence 0.
type Engine struct {
	inference deps.InferenceClient
	logger    zerolog.Logger
}

// NewEngine creates a classification engine. The inference client may be nil
// when no model collaborator is configured.
func NewEngine(inference deps.InferenceClient, logger zerolog.Logger) *Engine {
	return &Engine{
		inference: inference,
		logger:    logger.With().Str("component", "classification_engine").Logger(),
	}
}

type ruleMatch struct {
	rule       *entities.ClassificationRule
	confidence float64
}

// Classify runs the requested strategy over the text against the given rules,
// which must already be in evaluation order (priority ascending, then
// insertion order).
func (e *Engine) Classify(ctx context.Context, title, content, method string, rules []entities.ClassificationRule) *dto.Outcome {
	start := time.Now()

	outcome := &dto.Outcome{
		Method:  method,
		Details: make(map[string]interface{}),
	}

	keywordMatch := e.classifyByRules(title, content, rules)
	modelResult, modelID := e.classifyByModel(ctx, title, content, method)

	keywordConfidence := 0.0
	if keywordMatch != nil {
		keywordConfidence = keywordMatch.confidence
	}

	switch method {
	case entities.MethodKeyword:
		e.applyRuleMatch(outcome, keywordMatch)

	case entities.MethodML:
		e.applyModelResult(outcome, modelResult, modelID)

	case entities.MethodHybrid:
		e.applyHybrid(outcome, keywordMatch, modelResult, modelID)

	default:
		// Unknown method degrades to keyword, the always-available strategy
		outcome.Method = entities.MethodKeyword
		e.applyRuleMatch(outcome, keywordMatch)
	}

	isUrgent, urgencyConfidence := e.ClassifyUrgency(title, content)
	outcome.IsUrgent = isUrgent
	outcome.UrgencyConfidence = urgencyConfidence

	keywordDetails := map[string]interface{}{
		"matched":    keywordMatch != nil,
		"confidence": keywordConfidence,
	}
	if keywordMatch != nil {
		keywordDetails["rule_id"] = keywordMatch.rule.ID
		keywordDetails["rule_name"] = keywordMatch.rule.Name
	}
	outcome.Details["keyword_result"] = keywordDetails
	if modelResult != nil {
		outcome.Details["ml_result"] = map[string]interface{}{
			"category":   modelResult.Category,
			"confidence": modelResult.Confidence,
		}
	}
	outcome.Details["urgency_result"] = map[string]interface{}{
		"is_urgent":  isUrgent,
		"confidence": urgencyConfidence,
	}

	outcome.ProcessingTime = time.Since(start).Seconds()
	return outcome
}

// classifyByRules returns the first rule in evaluation order whose score
// reaches its confidence threshold, or nil when nothing matches.
func (e *Engine) classifyByRules(title, content string, rules []entities.ClassificationRule) *ruleMatch {
	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive {
			continue
		}

		score := e.scoreRule(rule, title, content)
		if score >= rule.ConfidenceThreshold && score > 0 {
			return &ruleMatch{rule: rule, confidence: score}
		}
	}
	return nil
}

// scoreRule computes weight * hits / configured matchers, capped at 1.0.
// The denominator is the number of configured keywords plus patterns, so a
// rule matching all of its keywords scores exactly its weight.
func (e *Engine) scoreRule(rule *entities.ClassificationRule, title, content string) float64 {
	total := len(rule.Keywords) + len(rule.Patterns)
	if total == 0 {
		return 0
	}

	searchTitle := title
	searchText := title + " " + content
	if !rule.CaseSensitive {
		searchTitle = strings.ToLower(searchTitle)
		searchText = strings.ToLower(searchText)
	}

	hits := 0
	titleHit := false

	for _, keyword := range rule.Keywords {
		if !rule.CaseSensitive {
			keyword = strings.ToLower(keyword)
		}
		if keyword == "" {
			continue
		}
		if strings.Contains(searchText, keyword) {
			hits++
			if strings.Contains(searchTitle, keyword) {
				titleHit = true
			}
		}
	}

	for _, pattern := range rule.Patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			e.logger.Warn().
				Str("rule", rule.Name).
				Str("pattern", pattern).
				Msg("Skipping invalid rule pattern")
			continue
		}
		if re.MatchString(searchText) {
			hits++
			if re.MatchString(searchTitle) {
				titleHit = true
			}
		}
	}

	if hits == 0 {
		return 0
	}
	if rule.RequiresTitleMatch && !titleHit {
		return 0
	}

	score := rule.Weight * float64(hits) / float64(total)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// classifyByModel delegates to the inference collaborator. Any failure or
// malformed output yields a nil result, never an error.
func (e *Engine) classifyByModel(ctx context.Context, title, content, method string) (*dto.ModelPrediction, *uint) {
	if e.inference == nil {
		return nil, nil
	}
	if method != entities.MethodML && method != entities.MethodHybrid {
		return nil, nil
	}

	prediction, err := e.inference.Predict(ctx, title, content)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Model inference failed, continuing without model result")
		return nil, nil
	}
	if prediction == nil || prediction.Category == "" || prediction.Confidence <= 0 {
		return nil, nil
	}
	if prediction.Confidence > 1.0 {
		prediction.Confidence = 1.0
	}

	return prediction, nil
}

func (e *Engine) applyRuleMatch(outcome *dto.Outcome, match *ruleMatch) {
	if match == nil {
		return
	}

	categoryID := match.rule.TargetCategoryID
	outcome.CategoryID = &categoryID
	outcome.CategoryConfidence = match.confidence
	ruleID := match.rule.ID
	outcome.AppliedRuleID = &ruleID

	if match.rule.TargetSubcategoryID != nil {
		outcome.SubcategoryID = match.rule.TargetSubcategoryID
		outcome.SubcategoryConfidence = match.confidence * subcategoryConfidenceFactor
	}
}

func (e *Engine) applyModelResult(outcome *dto.Outcome, prediction *dto.ModelPrediction, modelID *uint) {
	if prediction == nil {
		return
	}

	outcome.CategoryName = prediction.Category
	outcome.CategoryConfidence = prediction.Confidence
	outcome.AppliedModelID = modelID
}

// applyHybrid merges keyword and model results: agreement takes the max
// confidence, disagreement prefers the higher confidence, and a near-tie
// (within hybridEpsilon) prefers the keyword result.
func (e *Engine) applyHybrid(outcome *dto.Outcome, match *ruleMatch, prediction *dto.ModelPrediction, modelID *uint) {
	switch {
	case match == nil && prediction == nil:
		return
	case prediction == nil:
		e.applyRuleMatch(outcome, match)
		return
	case match == nil:
		e.applyModelResult(outcome, prediction, modelID)
		return
	}

	keywordConfidence := match.confidence
	modelConfidence := prediction.Confidence

	if modelConfidence-keywordConfidence > hybridEpsilon {
		e.applyModelResult(outcome, prediction, modelID)
		outcome.Details["hybrid_winner"] = "ml"
		return
	}

	e.applyRuleMatch(outcome, match)
	outcome.Details["hybrid_winner"] = "keyword"
}

// ClassifyUrgency scores urgency independently of category classification.
// The score is the capped sum of weighted indicator tokens and time-sensitive
// pattern hits; is_urgent holds when it reaches urgencyThreshold.
func (e *Engine) ClassifyUrgency(title, content string) (bool, float64) {
	text := strings.ToLower(title + " " + content)

	score := 0.0
	for keyword, weight := range urgentIndicators {
		if strings.Contains(text, keyword) {
			score += weight
		}
	}

	for _, pattern := range timeSensitivePatterns {
		if pattern.MatchString(text) {
			score += 0.5
		}
	}

	if score > 1.0 {
		score = 1.0
	}

	return score >= urgencyThreshold, score
}

// MatchSubcategory scans a category's subcategories and returns the one with
// the most keyword hits in the text, or nil when none match.
func (e *Engine) MatchSubcategory(title, content string, subcategories []newsentities.Subcategory) *newsentities.Subcategory {
	text := strings.ToLower(title + " " + content)

	var best *newsentities.Subcategory
	bestHits := 0

	for i := range subcategories {
		sub := &subcategories[i]
		if !sub.IsActive {
			continue
		}

		hits := 0
		for _, keyword := range sub.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(keyword)) {
				hits++
			}
		}

		if hits > bestHits {
			best = sub
			bestHits = hits
		}
	}

	return best
}
