package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/notification/dto"
	"github.com/jota-news/news-engine/internal/domain/notification/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/notification/errors"
	"github.com/jota-news/news-engine/internal/utils"
)

const webhookTimeout = 10 * time.Second

// WebhookTransport delivers notifications by POSTing JSON to a configured URL
type WebhookTransport struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewWebhookTransport creates an outbound webhook transport
func NewWebhookTransport(logger zerolog.Logger) *WebhookTransport {
	return &WebhookTransport{
		httpClient: &http.Client{Timeout: webhookTimeout},
		logger:     logger.With().Str("transport", "webhook").Logger(),
	}
}

// Type returns the channel type this transport serves
func (t *WebhookTransport) Type() string {
	return entities.ChannelTypeWebhook
}

type webhookPayload struct {
	NewsID   uint   `json:"news_id"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
	Source   string `json:"source,omitempty"`
	IsUrgent bool   `json:"is_urgent"`
}

// Send POSTs the message to the URL configured on the channel. A secret in
// the channel config signs the body the same way inbound webhooks are signed.
func (t *WebhookTransport) Send(ctx context.Context, channel *entities.NotificationChannel, message *dto.Message) error {
	url, _ := channel.Config["url"].(string)
	if url == "" {
		return domainerrors.ErrChannelMisconfigured
	}

	body, err := json.Marshal(webhookPayload{
		NewsID:   message.NewsID,
		Title:    message.Title,
		Summary:  message.Summary,
		Source:   message.Source,
		IsUrgent: message.IsUrgent,
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if secret, _ := channel.Config["secret"].(string); secret != "" {
		req.Header.Set("X-Hub-Signature-256", utils.ComputeSignature(secret, body))
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
