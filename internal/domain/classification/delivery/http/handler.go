package http

import (
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/jota-news/news-engine/internal/domain/classification/usecase/business"
	pkgerrors "github.com/jota-news/news-engine/pkg/errors"
	"github.com/jota-news/news-engine/pkg/httputil"
)

// Handler handles classification HTTP requests
type Handler struct {
	useCase *business.UseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates a new classification handler
func NewHandler(useCase *business.UseCase, logger zerolog.Logger) *Handler {
	return &Handler{
		useCase: useCase,
		mapper:  pkgerrors.NewMapper(),
		logger:  logger.With().Str("handler", "classification").Logger(),
	}
}

// Classify handles POST /api/v1/news/{id}/classify
func (h *Handler) Classify(ctx *fasthttp.RequestCtx) {
	newsID, ok := pathID(ctx, "id")
	if !ok {
		httputil.WriteErrorResponse(ctx, "invalid news id", fasthttp.StatusBadRequest)
		return
	}

	var req struct {
		Method string `json:"method"`
	}
	if len(ctx.PostBody()) > 0 {
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			httputil.WriteErrorResponse(ctx, "invalid request body", fasthttp.StatusBadRequest)
			return
		}
	}

	resp, err := h.useCase.ClassifyNews(ctx, newsID, req.Method)
	if err != nil {
		h.handleError(ctx, err)
		return
	}
	if resp == nil {
		httputil.WriteResponse(ctx, map[string]string{"message": "news already processed"})
		return
	}

	httputil.WriteResponse(ctx, resp)
}

// Accept handles POST /api/v1/classification-results/{id}/accept
func (h *Handler) Accept(ctx *fasthttp.RequestCtx) {
	resultID, ok := pathID(ctx, "id")
	if !ok {
		httputil.WriteErrorResponse(ctx, "invalid result id", fasthttp.StatusBadRequest)
		return
	}

	if err := h.useCase.Accept(ctx, resultID); err != nil {
		h.handleError(ctx, err)
		return
	}

	httputil.WriteResponse(ctx, map[string]string{"message": "classification accepted"})
}

func (h *Handler) handleError(ctx *fasthttp.RequestCtx, err error) {
	status, message := h.mapper.MapErrorToHttp(err)
	if status >= fasthttp.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("Classification request failed")
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
