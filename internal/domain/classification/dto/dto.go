package dto

// ClassifyJob is the payload of a queued classification request
type ClassifyJob struct {
	NewsID uint   `json:"news_id"`
	Method string `json:"method"`
}

// ModelPrediction is the response of the inference collaborator
type ModelPrediction struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// StrategyResult is the outcome of a single classification strategy
type StrategyResult struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Outcome is the merged result of a classification attempt
type Outcome struct {
	Method string

	CategoryID   *uint
	CategoryName string

	SubcategoryID   *uint
	SubcategoryName string

	CategoryConfidence    float64
	SubcategoryConfidence float64

	IsUrgent          bool
	UrgencyConfidence float64

	AppliedRuleID  *uint
	AppliedModelID *uint

	// Details holds per-strategy evidence persisted with the result
	Details map[string]interface{}

	ProcessingTime float64
}

// Classified reports whether any strategy proposed a category
func (o *Outcome) Classified() bool {
	return o.CategoryID != nil || o.CategoryName != ""
}

// ClassifyResponse is returned by the classify trigger endpoint
type ClassifyResponse struct {
	ResultID           uint    `json:"resultId"`
	NewsID             uint    `json:"newsId"`
	Category           string  `json:"category,omitempty"`
	CategoryConfidence float64 `json:"categoryConfidence"`
	IsUrgent           bool    `json:"isUrgent"`
	Accepted           bool    `json:"accepted"`
}
