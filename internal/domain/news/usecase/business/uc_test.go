package business

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jota-news/news-engine/internal/domain/news/deps"
	"github.com/jota-news/news-engine/internal/domain/news/dto"
	"github.com/jota-news/news-engine/internal/domain/news/entities"
	domainerrors "github.com/jota-news/news-engine/internal/domain/news/errors"
	pkgerrors "github.com/jota-news/news-engine/pkg/errors"
)

type mockNewsRepo struct {
	createFunc             func(ctx context.Context, news *entities.News) error
	getByIDFunc            func(ctx context.Context, id uint) (*entities.News, error)
	existsByExternalIDFunc func(ctx context.Context, externalID string) (bool, error)
	listFunc               func(ctx context.Context, filter deps.ListFilter) ([]entities.News, int64, error)
	updateFunc             func(ctx context.Context, news *entities.News) error
	deleteFunc             func(ctx context.Context, id uint) error
	replaceTagsFunc        func(ctx context.Context, news *entities.News, tags []entities.Tag) error
}

func (m *mockNewsRepo) Create(ctx context.Context, news *entities.News) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, news)
	}
	news.ID = 1
	return nil
}

func (m *mockNewsRepo) GetByID(ctx context.Context, id uint) (*entities.News, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockNewsRepo) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	if m.existsByExternalIDFunc != nil {
		return m.existsByExternalIDFunc(ctx, externalID)
	}
	return false, nil
}

func (m *mockNewsRepo) List(ctx context.Context, filter deps.ListFilter) ([]entities.News, int64, error) {
	return m.listFunc(ctx, filter)
}

func (m *mockNewsRepo) Update(ctx context.Context, news *entities.News) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, news)
	}
	return nil
}

func (m *mockNewsRepo) Delete(ctx context.Context, id uint) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockNewsRepo) IncrementViewCount(ctx context.Context, id uint) error { return nil }

func (m *mockNewsRepo) IncrementShareCount(ctx context.Context, id uint) error { return nil }

func (m *mockNewsRepo) ReplaceTags(ctx context.Context, news *entities.News, tags []entities.Tag) error {
	if m.replaceTagsFunc != nil {
		return m.replaceTagsFunc(ctx, news, tags)
	}
	return nil
}

type mockCategoryRepo struct {
	getActiveByNameFunc      func(ctx context.Context, name string) (*entities.Category, error)
	getOrCreateFunc          func(ctx context.Context, name, slug, description string) (*entities.Category, error)
	getActiveSubcategoryFunc func(ctx context.Context, categoryID uint, name string) (*entities.Subcategory, error)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id uint) (*entities.Category, error) {
	return nil, domainerrors.ErrCategoryNotFound
}

func (m *mockCategoryRepo) GetActiveByName(ctx context.Context, name string) (*entities.Category, error) {
	if m.getActiveByNameFunc != nil {
		return m.getActiveByNameFunc(ctx, name)
	}
	return nil, domainerrors.ErrCategoryNotFound
}

func (m *mockCategoryRepo) GetOrCreate(ctx context.Context, name, slug, description string) (*entities.Category, error) {
	if m.getOrCreateFunc != nil {
		return m.getOrCreateFunc(ctx, name, slug, description)
	}
	return &entities.Category{ID: 99, Name: name, Slug: slug}, nil
}

func (m *mockCategoryRepo) ListActive(ctx context.Context) ([]entities.Category, error) {
	return nil, nil
}

func (m *mockCategoryRepo) GetActiveSubcategory(ctx context.Context, categoryID uint, name string) (*entities.Subcategory, error) {
	if m.getActiveSubcategoryFunc != nil {
		return m.getActiveSubcategoryFunc(ctx, categoryID, name)
	}
	return nil, domainerrors.ErrCategoryNotFound
}

func (m *mockCategoryRepo) ListActiveSubcategories(ctx context.Context, categoryID uint) ([]entities.Subcategory, error) {
	return nil, nil
}

type mockTagRepo struct {
	getOrCreateFunc func(ctx context.Context, name string) (*entities.Tag, error)
}

func (m *mockTagRepo) GetOrCreate(ctx context.Context, name string) (*entities.Tag, error) {
	if m.getOrCreateFunc != nil {
		return m.getOrCreateFunc(ctx, name)
	}
	return &entities.Tag{ID: 1, Name: name}, nil
}

func (m *mockTagRepo) IncrementUsage(ctx context.Context, id uint) error { return nil }

func (m *mockTagRepo) List(ctx context.Context) ([]entities.Tag, error) { return nil, nil }

type mockLogRepo struct {
	entries []entities.NewsProcessingLog
}

func (m *mockLogRepo) Create(ctx context.Context, log *entities.NewsProcessingLog) error {
	m.entries = append(m.entries, *log)
	return nil
}

type mockJobQueue struct {
	classifyJobs []uint
	urgentJobs   []uint
}

func (m *mockJobQueue) EnqueueClassification(ctx context.Context, newsID uint, method string) error {
	m.classifyJobs = append(m.classifyJobs, newsID)
	return nil
}

func (m *mockJobQueue) EnqueueUrgentDispatch(ctx context.Context, newsID uint) error {
	m.urgentJobs = append(m.urgentJobs, newsID)
	return nil
}

type newsMocks struct {
	news       *mockNewsRepo
	categories *mockCategoryRepo
	tags       *mockTagRepo
	logs       *mockLogRepo
	queue      *mockJobQueue
}

func newTestUseCase(m *newsMocks) *UseCase {
	return NewUseCase(m.news, m.categories, m.tags, m.logs, m.queue, zerolog.Nop())
}

func defaultMocks() *newsMocks {
	return &newsMocks{
		news:       &mockNewsRepo{},
		categories: &mockCategoryRepo{},
		tags:       &mockTagRepo{},
		logs:       &mockLogRepo{},
		queue:      &mockJobQueue{},
	}
}

func ingestRequest() *dto.IngestRequest {
	return &dto.IngestRequest{
		Title:      "Congress vote",
		Content:    "The congress passed an election reform bill",
		Source:     "wire-agency",
		ExternalID: "wire-123",
	}
}

func TestIngestCreatesAndEnqueues(t *testing.T) {
	m := defaultMocks()
	uc := newTestUseCase(m)

	resp, err := uc.Ingest(context.Background(), ingestRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.NewsID != 1 {
		t.Errorf("expected news id 1, got %d", resp.NewsID)
	}
	if len(m.queue.classifyJobs) != 1 {
		t.Errorf("expected one classify job, got %d", len(m.queue.classifyJobs))
	}
	if len(m.queue.urgentJobs) != 0 {
		t.Errorf("expected no urgent jobs for non-urgent news, got %d", len(m.queue.urgentJobs))
	}
	if len(m.logs.entries) != 1 || m.logs.entries[0].Stage != StageWebhookReceived {
		t.Errorf("expected a webhook_received log entry, got %+v", m.logs.entries)
	}
}

func TestIngestUrgentEnqueuesDispatch(t *testing.T) {
	m := defaultMocks()
	uc := newTestUseCase(m)

	req := ingestRequest()
	req.IsUrgent = true

	resp, err := uc.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsUrgent {
		t.Error("expected the response to carry the urgent flag")
	}
	if len(m.queue.urgentJobs) != 1 {
		t.Errorf("expected one urgent dispatch job, got %d", len(m.queue.urgentJobs))
	}
}

func TestIngestDuplicateExternalID(t *testing.T) {
	m := defaultMocks()
	m.news.existsByExternalIDFunc = func(ctx context.Context, externalID string) (bool, error) {
		return externalID == "wire-123", nil
	}
	m.news.createFunc = func(ctx context.Context, news *entities.News) error {
		t.Fatal("create must not be called for a duplicate external id")
		return nil
	}
	uc := newTestUseCase(m)

	_, err := uc.Ingest(context.Background(), ingestRequest())
	if !pkgerrors.IsConflictError(err) {
		t.Errorf("expected a conflict error, got %v", err)
	}
	if len(m.queue.classifyJobs) != 0 {
		t.Error("no jobs may be enqueued for a rejected duplicate")
	}
}

func TestIngestCategoryHint(t *testing.T) {
	m := defaultMocks()
	m.categories.getActiveByNameFunc = func(ctx context.Context, name string) (*entities.Category, error) {
		if name == "Politics" {
			return &entities.Category{ID: 10, Name: "Politics"}, nil
		}
		return nil, domainerrors.ErrCategoryNotFound
	}

	var createdCategoryID uint
	m.news.createFunc = func(ctx context.Context, news *entities.News) error {
		news.ID = 1
		if news.CategoryID != nil {
			createdCategoryID = *news.CategoryID
		}
		return nil
	}
	uc := newTestUseCase(m)

	req := ingestRequest()
	req.CategoryHint = "Politics"

	if _, err := uc.Ingest(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if createdCategoryID != 10 {
		t.Errorf("expected hinted category 10, got %d", createdCategoryID)
	}
}

func TestIngestUnknownHintFallsBackToDefault(t *testing.T) {
	m := defaultMocks()

	var resolvedName string
	m.categories.getOrCreateFunc = func(ctx context.Context, name, slug, description string) (*entities.Category, error) {
		resolvedName = name
		return &entities.Category{ID: 99, Name: name, Slug: slug}, nil
	}
	uc := newTestUseCase(m)

	req := ingestRequest()
	req.CategoryHint = "Nonexistent"

	if _, err := uc.Ingest(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolvedName != defaultCategoryName {
		t.Errorf("expected fallback to %q, got %q", defaultCategoryName, resolvedName)
	}
}

func TestIngestValidation(t *testing.T) {
	uc := newTestUseCase(defaultMocks())

	tests := []struct {
		name    string
		mutate  func(req *dto.IngestRequest)
		wantErr error
	}{
		{
			name:    "missing title",
			mutate:  func(req *dto.IngestRequest) { req.Title = "   " },
			wantErr: domainerrors.ErrTitleRequired,
		},
		{
			name:    "missing content",
			mutate:  func(req *dto.IngestRequest) { req.Content = "" },
			wantErr: domainerrors.ErrContentRequired,
		},
		{
			name:    "missing source",
			mutate:  func(req *dto.IngestRequest) { req.Source = "" },
			wantErr: domainerrors.ErrSourceRequired,
		},
		{
			name:    "title too long",
			mutate:  func(req *dto.IngestRequest) { req.Title = strings.Repeat("a", maxTitleLength+1) },
			wantErr: domainerrors.ErrTitleTooLong,
		},
		{
			name:    "content too long",
			mutate:  func(req *dto.IngestRequest) { req.Content = strings.Repeat("a", maxContentLength+1) },
			wantErr: domainerrors.ErrContentTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ingestRequest()
			tt.mutate(req)

			_, err := uc.Ingest(context.Background(), req)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateAttachesTags(t *testing.T) {
	m := defaultMocks()

	var replaced []entities.Tag
	m.news.replaceTagsFunc = func(ctx context.Context, news *entities.News, tags []entities.Tag) error {
		replaced = tags
		return nil
	}
	uc := newTestUseCase(m)

	_, err := uc.Create(context.Background(), &dto.CreateNewsRequest{
		Title:   "Congress vote",
		Content: "The congress passed an election reform bill",
		Source:  "editor",
		Tags:    []string{"politics", " reform ", ""},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(replaced) != 2 {
		t.Errorf("expected two tags after trimming, got %d", len(replaced))
	}
}
