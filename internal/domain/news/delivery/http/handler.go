package http

import (
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/jota-news/news-engine/internal/domain/news/deps"
	"github.com/jota-news/news-engine/internal/domain/news/dto"
	"github.com/jota-news/news-engine/internal/domain/news/usecase/business"
	pkgerrors "github.com/jota-news/news-engine/pkg/errors"
	"github.com/jota-news/news-engine/pkg/httputil"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler handles news HTTP requests
type Handler struct {
	useCase *business.UseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates a new news handler
func NewHandler(useCase *business.UseCase, logger zerolog.Logger) *Handler {
	return &Handler{
		useCase: useCase,
		mapper:  pkgerrors.NewMapper(),
		logger:  logger.With().Str("handler", "news").Logger(),
	}
}

// Create handles POST /api/v1/news
func (h *Handler) Create(ctx *fasthttp.RequestCtx) {
	var req dto.CreateNewsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}

	news, err := h.useCase.Create(ctx, &req)
	if err != nil {
		h.handleError(ctx, err)
		return
	}

	httputil.WriteResponseWithStatus(ctx, news, fasthttp.StatusCreated)
}

// Get handles GET /api/v1/news/{id}
func (h *Handler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx, "id")
	if !ok {
		httputil.WriteErrorResponse(ctx, "invalid news id", fasthttp.StatusBadRequest)
		return
	}

	news, err := h.useCase.GetByID(ctx, id)
	if err != nil {
		h.handleError(ctx, err)
		return
	}

	httputil.WriteResponse(ctx, news)
}

// List handles GET /api/v1/news
func (h *Handler) List(ctx *fasthttp.RequestCtx) {
	filter := deps.ListFilter{
		Page:     queryInt(ctx, "page", 1),
		PageSize: queryInt(ctx, "page_size", defaultPageSize),
		Source:   string(ctx.QueryArgs().Peek("source")),
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	if raw := ctx.QueryArgs().Peek("category_id"); len(raw) > 0 {
		if id, err := strconv.ParseUint(string(raw), 10, 32); err == nil {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	if raw := ctx.QueryArgs().Peek("is_urgent"); len(raw) > 0 {
		urgent := string(raw) == "true"
		filter.IsUrgent = &urgent
	}
	if raw := ctx.QueryArgs().Peek("is_published"); len(raw) > 0 {
		published := string(raw) == "true"
		filter.IsPublished = &published
	}

	resp, err := h.useCase.List(ctx, filter, string(ctx.Path()))
	if err != nil {
		h.handleError(ctx, err)
		return
	}

	httputil.WriteRaw(ctx, resp, fasthttp.StatusOK)
}

// Update handles PATCH /api/v1/news/{id}
func (h *Handler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx, "id")
	if !ok {
		httputil.WriteErrorResponse(ctx, "invalid news id", fasthttp.StatusBadRequest)
		return
	}

	var req dto.UpdateNewsRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
		return
	}

	news, err := h.useCase.Update(ctx, id, &req)
	if err != nil {
		h.handleError(ctx, err)
		return
	}

	httputil.WriteResponse(ctx, news)
}

// Delete handles DELETE /api/v1/news/{id}
func (h *Handler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx, "id")
	if !ok {
		httputil.WriteErrorResponse(ctx, "invalid news id", fasthttp.StatusBadRequest)
		return
	}

	if err := h.useCase.Delete(ctx, id); err != nil {
		h.handleError(ctx, err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// RecordView handles POST /api/v1/news/{id}/view
func (h *Handler) RecordView(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx, "id")
	if !ok {
		httputil.WriteErrorResponse(ctx, "invalid news id", fasthttp.StatusBadRequest)
		return
	}

	if err := h.useCase.RecordView(ctx, id); err != nil {
		h.handleError(ctx, err)
		return
	}

	httputil.WriteResponse(ctx, map[string]string{"message": "view recorded"})
}

// RecordShare handles POST /api/v1/news/{id}/share
func (h *Handler) RecordShare(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx, "id")
	if !ok {
		httputil.WriteErrorResponse(ctx, "invalid news id", fasthttp.StatusBadRequest)
		return
	}

	if err := h.useCase.RecordShare(ctx, id); err != nil {
		h.handleError(ctx, err)
		return
	}

	httputil.WriteResponse(ctx, map[string]string{"message": "share recorded"})
}

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(ctx *fasthttp.RequestCtx) {
	categories, err := h.useCase.ListCategories(ctx)
	if err != nil {
		h.handleError(ctx, err)
		return
	}

	httputil.WriteResponse(ctx, categories)
}

// ListTags handles GET /api/v1/tags
func (h *Handler) ListTags(ctx *fasthttp.RequestCtx) {
	tags, err := h.useCase.ListTags(ctx)
	if err != nil {
		h.handleError(ctx, err)
		return
	}

	httputil.WriteResponse(ctx, tags)
}

func (h *Handler) handleError(ctx *fasthttp.RequestCtx, err error) {
	status, message := h.mapper.MapErrorToHttp(err)
	if status >= fasthttp.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("News request failed")
	}
	httputil.WriteErrorResponse(ctx, message, status)
}

func pathID(ctx *fasthttp.RequestCtx, name string) (uint, bool) {
	raw, ok := ctx.UserValue(name).(string)
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryInt(ctx *fasthttp.RequestCtx, name string, fallback int) int {
	raw := ctx.QueryArgs().Peek(name)
	if len(raw) == 0 {
		return fallback
	}
	value, err := strconv.Atoi(string(raw))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
