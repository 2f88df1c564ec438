package adapter

import (
	"github.com/jota-news/news-engine/internal/domain/news/usecase/business"
	webhookdeps "github.com/jota-news/news-engine/internal/domain/webhook/deps"
)

// NewNewsIngestor exposes the news usecase as the webhook-facing ingestor
func NewNewsIngestor(uc *business.UseCase) webhookdeps.NewsIngestor {
	return uc
}
