package entities

import (
	"math"
	"time"
)

// Rule types
const (
	RuleTypeKeyword = "keyword"
	RuleTypePattern = "pattern"
	RuleTypeML      = "ml"
)

// Classification methods
const (
	MethodKeyword = "keyword"
	MethodML      = "ml"
	MethodHybrid  = "hybrid"
	MethodManual  = "manual"
)

// Training data sources
const (
	TrainingSourceManual   = "manual"
	TrainingSourceAccepted = "accepted"
	TrainingSourceImported = "imported"
)

// ClassificationRule is a weighted keyword/pattern matcher proposing a category
type ClassificationRule struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	RuleType    string `gorm:"size:20;not null;default:keyword" json:"ruleType"`

	TargetCategoryID    uint  `gorm:"not null;index" json:"targetCategoryId"`
	TargetSubcategoryID *uint `json:"targetSubcategoryId,omitempty"`

	Keywords []string `gorm:"serializer:json;type:text" json:"keywords"`
	Patterns []string `gorm:"serializer:json;type:text" json:"patterns"`

	Weight              float64 `gorm:"default:1" json:"weight"`
	ConfidenceThreshold float64 `gorm:"default:0.5" json:"confidenceThreshold"`

	RequiresTitleMatch bool `gorm:"default:false" json:"requiresTitleMatch"`
	CaseSensitive      bool `gorm:"default:false" json:"caseSensitive"`

	IsActive bool `gorm:"default:true;index" json:"isActive"`
	// Priority orders rule evaluation: lower value is evaluated first.
	// Ties break by created_at, then id.
	Priority int `gorm:"default:100;index" json:"priority"`

	TotalMatches              uint       `gorm:"default:0" json:"totalMatches"`
	SuccessfulClassifications uint       `gorm:"default:0" json:"successfulClassifications"`
	LastUsed                  *time.Time `json:"lastUsed,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for ClassificationRule
func (ClassificationRule) TableName() string {
	return "classification_rules"
}

// SuccessRate returns the success percentage in [0,100]; 0 when the rule
// has never matched.
func (r *ClassificationRule) SuccessRate() float64 {
	return successRate(r.SuccessfulClassifications, r.TotalMatches)
}

// ClassificationModel describes a trained model served by the inference collaborator
type ClassificationModel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	ModelType   string `gorm:"size:20;not null;default:tfidf" json:"modelType"`

	Config map[string]interface{} `gorm:"serializer:json;type:text" json:"config"`

	TrainingDataCount  uint       `gorm:"default:0" json:"trainingDataCount"`
	LastTrained        *time.Time `json:"lastTrained,omitempty"`
	TrainingAccuracy   *float64   `json:"trainingAccuracy,omitempty"`
	ValidationAccuracy *float64   `json:"validationAccuracy,omitempty"`

	IsActive  bool `gorm:"default:false;index" json:"isActive"`
	IsTrained bool `gorm:"default:false" json:"isTrained"`

	TotalPredictions uint       `gorm:"default:0" json:"totalPredictions"`
	LastUsed         *time.Time `json:"lastUsed,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for ClassificationModel
func (ClassificationModel) TableName() string {
	return "classification_models"
}

// ClassificationResult records one classification attempt for a news item
type ClassificationResult struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	NewsID uint   `gorm:"not null;index" json:"newsId"`
	Method string `gorm:"size:20;not null;default:keyword" json:"method"`

	AppliedRuleID  *uint `gorm:"index" json:"appliedRuleId,omitempty"`
	AppliedModelID *uint `json:"appliedModelId,omitempty"`

	PredictedCategoryID    uint  `gorm:"not null" json:"predictedCategoryId"`
	PredictedSubcategoryID *uint `json:"predictedSubcategoryId,omitempty"`

	CategoryConfidence    float64 `gorm:"not null" json:"categoryConfidence"`
	SubcategoryConfidence float64 `gorm:"default:0" json:"subcategoryConfidence"`
	UrgencyConfidence     float64 `gorm:"default:0" json:"urgencyConfidence"`

	PredictionDetails map[string]interface{} `gorm:"serializer:json;type:text" json:"predictionDetails"`

	IsAccepted       bool `gorm:"default:false" json:"isAccepted"`
	IsManualOverride bool `gorm:"default:false" json:"isManualOverride"`

	ProcessingTime float64 `json:"processingTime"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	AppliedRule *ClassificationRule `gorm:"foreignKey:AppliedRuleID" json:"-"`
}

// TableName returns the table name for ClassificationResult
func (ClassificationResult) TableName() string {
	return "classification_results"
}

// ClassificationTrainingData is the accumulated feedback corpus
type ClassificationTrainingData struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	NewsID uint `gorm:"not null;index" json:"newsId"`

	CategoryID    uint  `gorm:"not null;index" json:"categoryId"`
	SubcategoryID *uint `json:"subcategoryId,omitempty"`
	IsUrgent      bool  `gorm:"default:false" json:"isUrgent"`

	Source string `gorm:"size:20;not null;default:manual" json:"source"`

	ConfidenceScore float64 `gorm:"default:1" json:"confidenceScore"`
	IsValidated     bool    `gorm:"default:false" json:"isValidated"`

	UsedInTraining bool       `gorm:"default:false" json:"usedInTraining"`
	LastUsed       *time.Time `json:"lastUsed,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for ClassificationTrainingData
func (ClassificationTrainingData) TableName() string {
	return "classification_training_data"
}

// ClassificationStatistic is a per-day rollup of classification activity
type ClassificationStatistic struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	Date time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`

	TotalClassifications      uint `gorm:"default:0" json:"totalClassifications"`
	SuccessfulClassifications uint `gorm:"default:0" json:"successfulClassifications"`
	FailedClassifications     uint `gorm:"default:0" json:"failedClassifications"`

	KeywordClassifications uint `gorm:"default:0" json:"keywordClassifications"`
	MLClassifications      uint `gorm:"default:0" json:"mlClassifications"`
	HybridClassifications  uint `gorm:"default:0" json:"hybridClassifications"`
	ManualClassifications  uint `gorm:"default:0" json:"manualClassifications"`

	AvgProcessingTime  float64 `gorm:"default:0" json:"avgProcessingTime"`
	AvgConfidenceScore float64 `gorm:"default:0" json:"avgConfidenceScore"`

	CategoryBreakdown map[string]uint `gorm:"serializer:json;type:text" json:"categoryBreakdown"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for ClassificationStatistic
func (ClassificationStatistic) TableName() string {
	return "classification_statistics"
}

// SuccessRate returns the success percentage in [0,100]; 0 for an empty day.
func (s *ClassificationStatistic) SuccessRate() float64 {
	return successRate(s.SuccessfulClassifications, s.TotalClassifications)
}

func successRate(successful, total uint) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(successful) / float64(total) * 100
	return math.Round(rate*100) / 100
}
