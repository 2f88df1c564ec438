package business

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	newsentities "github.com/jota-news/news-engine/internal/domain/news/entities"
	"github.com/jota-news/news-engine/internal/domain/notification/deps"
	"github.com/jota-news/news-engine/internal/domain/notification/dto"
	"github.com/jota-news/news-engine/internal/domain/notification/entities"
	"github.com/jota-news/news-engine/internal/infrastructure/metrics"
)

type mockChannelRepo struct {
	attempts []bool
}

func (m *mockChannelRepo) RecordAttempt(ctx context.Context, id uint, delivered bool) error {
	m.attempts = append(m.attempts, delivered)
	return nil
}

type mockSubscriptionRepo struct {
	subscriptions []entities.NotificationSubscription
}

func (m *mockSubscriptionRepo) ListActive(ctx context.Context) ([]entities.NotificationSubscription, error) {
	return m.subscriptions, nil
}

type mockNotificationRepo struct {
	created []entities.Notification
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *entities.Notification) error {
	m.created = append(m.created, *notification)
	return nil
}

type mockNewsReader struct {
	news *dto.NewsInfo
}

func (m *mockNewsReader) GetForNotification(ctx context.Context, newsID uint) (*dto.NewsInfo, error) {
	return m.news, nil
}

type mockTransport struct {
	channelType string
	sendFunc    func(ctx context.Context, channel *entities.NotificationChannel, message *dto.Message) error
	sent        []dto.Message
}

func (m *mockTransport) Type() string {
	return m.channelType
}

func (m *mockTransport) Send(ctx context.Context, channel *entities.NotificationChannel, message *dto.Message) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, channel, message)
	}
	m.sent = append(m.sent, *message)
	return nil
}

type dispatchFixture struct {
	channels      *mockChannelRepo
	subscriptions *mockSubscriptionRepo
	notifications *mockNotificationRepo
	reader        *mockNewsReader
	transport     *mockTransport
	uc            *UseCase
}

func newDispatchFixture(subs []entities.NotificationSubscription, news *dto.NewsInfo) *dispatchFixture {
	f := &dispatchFixture{
		channels:      &mockChannelRepo{},
		subscriptions: &mockSubscriptionRepo{subscriptions: subs},
		notifications: &mockNotificationRepo{},
		reader:        &mockNewsReader{news: news},
		transport:     &mockTransport{channelType: entities.ChannelTypeTelegram},
	}
	f.uc = NewUseCase(
		f.channels, f.subscriptions, f.notifications, f.reader,
		[]deps.Transport{f.transport},
		metrics.GetDefaultMetrics(),
		zerolog.Nop(),
	)
	return f
}

func telegramSubscription(id uint, minPriority string) entities.NotificationSubscription {
	return entities.NotificationSubscription{
		ID:          id,
		Name:        "newsroom",
		ChannelID:   1,
		MinPriority: minPriority,
		IsActive:    true,
		Channel: entities.NotificationChannel{
			ID:          1,
			Name:        "newsroom-telegram",
			ChannelType: entities.ChannelTypeTelegram,
			IsActive:    true,
		},
	}
}

func urgentNews() *dto.NewsInfo {
	categoryID := uint(10)
	return &dto.NewsInfo{
		ID:         42,
		Title:      "Dam failure upstream",
		Summary:    "Evacuation ordered",
		Content:    "Evacuation ordered, residents have 2 hours to leave the area",
		Source:     "wire-agency",
		CategoryID: &categoryID,
		IsUrgent:   true,
	}
}

func TestDispatchSendsToMatchingSubscription(t *testing.T) {
	f := newDispatchFixture([]entities.NotificationSubscription{
		telegramSubscription(1, entities.PriorityMedium),
	}, urgentNews())

	if err := f.uc.Dispatch(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.transport.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(f.transport.sent))
	}
	if !f.transport.sent[0].IsUrgent || f.transport.sent[0].NewsID != 42 {
		t.Errorf("unexpected message: %+v", f.transport.sent[0])
	}
	if len(f.notifications.created) != 1 || f.notifications.created[0].Status != entities.NotificationStatusSent {
		t.Errorf("expected one sent attempt row, got %+v", f.notifications.created)
	}
	if len(f.channels.attempts) != 1 || !f.channels.attempts[0] {
		t.Errorf("expected one delivered channel attempt, got %v", f.channels.attempts)
	}
}

func TestDispatchPriorityFloor(t *testing.T) {
	news := urgentNews()
	news.IsUrgent = false

	f := newDispatchFixture([]entities.NotificationSubscription{
		telegramSubscription(1, entities.PriorityHigh),
		telegramSubscription(2, entities.PriorityLow),
	}, news)

	if err := f.uc.Dispatch(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Non-urgent news ranks medium: only the low-floor subscription matches
	if len(f.transport.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(f.transport.sent))
	}
	if f.notifications.created[0].SubscriptionID != 2 {
		t.Errorf("expected subscription 2 to match, got %d", f.notifications.created[0].SubscriptionID)
	}
}

func TestDispatchUrgentOnlyFilter(t *testing.T) {
	news := urgentNews()
	news.IsUrgent = false

	sub := telegramSubscription(1, entities.PriorityLow)
	sub.UrgentOnly = true

	f := newDispatchFixture([]entities.NotificationSubscription{sub}, news)

	if err := f.uc.Dispatch(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.transport.sent) != 0 {
		t.Error("urgent-only subscription must not receive non-urgent news")
	}
}

func TestDispatchCategoryFilter(t *testing.T) {
	matching := telegramSubscription(1, entities.PriorityLow)
	matching.Categories = []newsentities.Category{{ID: 10, Name: "Politics"}}

	other := telegramSubscription(2, entities.PriorityLow)
	other.Categories = []newsentities.Category{{ID: 20, Name: "Sports"}}

	f := newDispatchFixture([]entities.NotificationSubscription{matching, other}, urgentNews())

	if err := f.uc.Dispatch(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.notifications.created) != 1 || f.notifications.created[0].SubscriptionID != 1 {
		t.Errorf("expected only the category-matching subscription, got %+v", f.notifications.created)
	}
}

func TestDispatchKeywordFilter(t *testing.T) {
	matching := telegramSubscription(1, entities.PriorityLow)
	matching.Keywords = []string{"evacuation", "flood"}

	other := telegramSubscription(2, entities.PriorityLow)
	other.Keywords = []string{"budget"}

	// the phrase appears only in the summary, which the matcher ignores
	summaryOnly := telegramSubscription(3, entities.PriorityLow)
	summaryOnly.Keywords = []string{"upstream reservoir"}

	news := urgentNews()
	news.Summary = "Upstream reservoir breach"

	f := newDispatchFixture([]entities.NotificationSubscription{matching, other, summaryOnly}, news)

	if err := f.uc.Dispatch(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.notifications.created) != 1 || f.notifications.created[0].SubscriptionID != 1 {
		t.Errorf("expected only the keyword-matching subscription, got %+v", f.notifications.created)
	}
}

func TestDispatchSkipsInactiveChannel(t *testing.T) {
	sub := telegramSubscription(1, entities.PriorityLow)
	sub.Channel.IsActive = false

	f := newDispatchFixture([]entities.NotificationSubscription{sub}, urgentNews())

	if err := f.uc.Dispatch(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.transport.sent) != 0 {
		t.Error("inactive channels must not receive deliveries")
	}
}

func TestDispatchTransportFailureRecorded(t *testing.T) {
	f := newDispatchFixture([]entities.NotificationSubscription{
		telegramSubscription(1, entities.PriorityLow),
		telegramSubscription(2, entities.PriorityLow),
	}, urgentNews())

	calls := 0
	f.transport.sendFunc = func(ctx context.Context, channel *entities.NotificationChannel, message *dto.Message) error {
		calls++
		if calls == 1 {
			return errors.New("telegram unavailable")
		}
		return nil
	}

	// One failed delivery must not stop the fan-out
	if err := f.uc.Dispatch(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected both subscriptions attempted, got %d", calls)
	}
	if len(f.notifications.created) != 2 {
		t.Fatalf("expected two attempt rows, got %d", len(f.notifications.created))
	}
	if f.notifications.created[0].Status != entities.NotificationStatusFailed {
		t.Errorf("expected first attempt failed, got %q", f.notifications.created[0].Status)
	}
	if f.notifications.created[0].ErrorMessage == "" {
		t.Error("failed attempts must carry the error message")
	}
	if f.notifications.created[1].Status != entities.NotificationStatusSent {
		t.Errorf("expected second attempt sent, got %q", f.notifications.created[1].Status)
	}
}

func TestDispatchUnsupportedChannelType(t *testing.T) {
	sub := telegramSubscription(1, entities.PriorityLow)
	sub.Channel.ChannelType = entities.ChannelTypeEmail

	f := newDispatchFixture([]entities.NotificationSubscription{sub}, urgentNews())

	if err := f.uc.Dispatch(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.notifications.created) != 1 || f.notifications.created[0].Status != entities.NotificationStatusFailed {
		t.Errorf("expected a failed attempt for the unsupported channel type, got %+v", f.notifications.created)
	}
}
