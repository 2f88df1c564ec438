package business

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/notification/deps"
	"github.com/jota-news/news-engine/internal/domain/notification/dto"
	"github.com/jota-news/news-engine/internal/domain/notification/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/notification/errors"
	"github.com/jota-news/news-engine/internal/infrastructure/metrics"
)

// priorityRank orders subscription priorities; unknown values rank lowest
var priorityRank = map[string]int{
	entities.PriorityLow:    0,
	entities.PriorityMedium: 1,
	entities.PriorityHigh:   2,
	entities.PriorityUrgent: 3,
}

// UseCase dispatches news alerts to matching subscriptions
type UseCase struct {
	channelRepo      deps.ChannelRepository
	subscriptionRepo deps.SubscriptionRepository
	notificationRepo deps.NotificationRepository
	newsReader       deps.NewsReader
	transports       map[string]deps.Transport
	metrics          *metrics.Metrics
	logger           zerolog.Logger
}

// NewUseCase creates a new notification dispatch usecase
func NewUseCase(
	channelRepo deps.ChannelRepository,
	subscriptionRepo deps.SubscriptionRepository,
	notificationRepo deps.NotificationRepository,
	newsReader deps.NewsReader,
	transports []deps.Transport,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	byType := make(map[string]deps.Transport, len(transports))
	for _, t := range transports {
		byType[t.Type()] = t
	}

	return &UseCase{
		channelRepo:      channelRepo,
		subscriptionRepo: subscriptionRepo,
		notificationRepo: notificationRepo,
		newsReader:       newsReader,
		transports:       byType,
		metrics:          m,
		logger:           logger.With().Str("component", "notification_usecase").Logger(),
	}
}

// Dispatch fans a news item out to every matching active subscription. Each
// attempt is recorded; a transport failure fails only that subscription and
// is not retried in-process.
func (uc *UseCase) Dispatch(ctx context.Context, newsID uint) error {
	news, err := uc.newsReader.GetForNotification(ctx, newsID)
	if err != nil {
		return err
	}

	subscriptions, err := uc.subscriptionRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	newsPriority := priorityRank[entities.PriorityMedium]
	if news.IsUrgent {
		newsPriority = priorityRank[entities.PriorityUrgent]
	}

	message := &dto.Message{
		NewsID:   news.ID,
		Title:    news.Title,
		Summary:  news.Summary,
		Source:   news.Source,
		IsUrgent: news.IsUrgent,
	}

	dispatched := 0
	for i := range subscriptions {
		sub := &subscriptions[i]
		if !uc.matches(sub, news, newsPriority) {
			continue
		}

		uc.deliver(ctx, sub, message)
		dispatched++
	}

	uc.logger.Info().
		Uint("news_id", news.ID).
		Bool("is_urgent", news.IsUrgent).
		Int("matched_subscriptions", dispatched).
		Msg("News dispatch completed")

	return nil
}

// matches applies the subscription filters: priority floor, urgency, category
// and keyword narrowing.
func (uc *UseCase) matches(sub *entities.NotificationSubscription, news *dto.NewsInfo, newsPriority int) bool {
	if !sub.Channel.IsActive {
		return false
	}
	if newsPriority < priorityRank[sub.MinPriority] {
		return false
	}
	if sub.UrgentOnly && !news.IsUrgent {
		return false
	}

	if len(sub.Categories) > 0 {
		if news.CategoryID == nil {
			return false
		}
		found := false
		for _, category := range sub.Categories {
			if category.ID == *news.CategoryID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(sub.Keywords) > 0 {
		text := strings.ToLower(news.Title + " " + news.Content)
		found := false
		for _, keyword := range sub.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(keyword)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// deliver sends over the subscription's channel and records the attempt
func (uc *UseCase) deliver(ctx context.Context, sub *entities.NotificationSubscription, message *dto.Message) {
	channel := &sub.Channel

	var sendErr error
	transport, ok := uc.transports[channel.ChannelType]
	if !ok {
		sendErr = domainerrors.ErrUnsupportedChannelType
	} else {
		sendErr = transport.Send(ctx, channel, message)
	}

	attempt := &entities.Notification{
		SubscriptionID: sub.ID,
		ChannelID:      channel.ID,
		NewsID:         message.NewsID,
	}
	if sendErr != nil {
		attempt.Status = entities.NotificationStatusFailed
		attempt.ErrorMessage = sendErr.Error()
		uc.logger.Warn().Err(sendErr).
			Uint("subscription_id", sub.ID).
			Str("channel_type", channel.ChannelType).
			Msg("Notification delivery failed")
	} else {
		now := time.Now()
		attempt.Status = entities.NotificationStatusSent
		attempt.SentAt = &now
	}

	if err := uc.notificationRepo.Create(ctx, attempt); err != nil {
		uc.logger.Error().Err(err).
			Uint("subscription_id", sub.ID).
			Msg("Failed to record notification attempt")
	}
	if err := uc.channelRepo.RecordAttempt(ctx, channel.ID, sendErr == nil); err != nil {
		uc.logger.Warn().Err(err).
			Uint("channel_id", channel.ID).
			Msg("Failed to record channel counters")
	}

	status := "sent"
	if sendErr != nil {
		status = "failed"
	}
	uc.metrics.NotificationsTotal.WithLabelValues(channel.ChannelType, status).Inc()
}
