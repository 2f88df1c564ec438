package adapter

import (
	"context"

	"github.com/jota-news/news-engine/internal/domain/news/deps"
	notificationdeps "github.com/jota-news/news-engine/internal/domain/notification/deps"
	notificationdto "github.com/jota-news/news-engine/internal/domain/notification/dto"
)

// NewsReader exposes read-only news projections to the notification domain
type NewsReader struct {
	newsRepo deps.NewsRepository
}

// NewNewsReader creates the notification-facing news reader
func NewNewsReader(newsRepo deps.NewsRepository) notificationdeps.NewsReader {
	return &NewsReader{newsRepo: newsRepo}
}

func (a *NewsReader) GetForNotification(ctx context.Context, newsID uint) (*notificationdto.NewsInfo, error) {
	news, err := a.newsRepo.GetByID(ctx, newsID)
	if err != nil {
		return nil, err
	}

	return &notificationdto.NewsInfo{
		ID:         news.ID,
		Title:      news.Title,
		Summary:    news.Summary,
		Content:    news.Content,
		Source:     news.Source,
		CategoryID: news.CategoryID,
		IsUrgent:   news.IsUrgent,
	}, nil
}
