package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/config"
	"github.com/jota-news/news-engine/internal/domain/classification/deps"
	"github.com/jota-news/news-engine/internal/domain/classification/dto"
)

// Client calls the external model inference service. A missing or failing
// service never blocks classification: every failure path returns a nil
// prediction so the caller falls back to keyword rules.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type predictRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type predictResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// NewClient creates an inference client, or nil when no service URL is
// configured.
func NewClient(cfg *config.ModelServiceConfig, logger zerolog.Logger) deps.InferenceClient {
	if cfg.URL == "" {
		logger.Info().Msg("Model service URL not configured, model inference disabled")
		return nil
	}

	client := &Client{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}

	logger.Info().
		Str("base_url", cfg.URL).
		Msg("Model inference client initialized")

	return client
}

func (c *Client) Predict(ctx context.Context, title, content string) (*dto.ModelPrediction, error) {
	body, err := json.Marshal(predictRequest{Title: title, Content: content})
	if err != nil {
		return nil, fmt.Errorf("failed to encode predict request: %w", err)
	}

	url := fmt.Sprintf("%s/predict", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Model service unreachable, skipping model prediction")
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Int("status_code", resp.StatusCode).
			Msg("Unexpected status code from model service")
		return nil, nil
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to decode model service response")
		return nil, nil
	}

	if result.Category == "" {
		return nil, nil
	}

	return &dto.ModelPrediction{
		Category:   result.Category,
		Confidence: result.Confidence,
	}, nil
}
