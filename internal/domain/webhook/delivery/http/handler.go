package http

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/jota-news/news-engine/internal/domain/webhook/dto"
	"github.com/jota-news/news-engine/internal/domain/webhook/usecase/business"
	pkgerrors "github.com/jota-news/news-engine/pkg/errors"
	"github.com/jota-news/news-engine/pkg/httputil"
)

// Handler handles inbound webhook HTTP requests
type Handler struct {
	useCase *business.UseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewHandler creates a new webhook handler
func NewHandler(useCase *business.UseCase, logger zerolog.Logger) *Handler {
	return &Handler{
		useCase: useCase,
		mapper:  pkgerrors.NewMapper(),
		logger:  logger.With().Str("handler", "webhook").Logger(),
	}
}

// Receive handles POST /webhooks/receive/{source_name}
func (h *Handler) Receive(ctx *fasthttp.RequestCtx) {
	sourceName, ok := ctx.UserValue("source_name").(string)
	if !ok || sourceName == "" {
		httputil.WriteErrorResponse(ctx, "source name is required", fasthttp.StatusBadRequest)
		return
	}

	signature := string(ctx.Request.Header.Peek("X-Hub-Signature-256"))
	if signature == "" {
		signature = string(ctx.Request.Header.Peek("X-Signature"))
	}

	req := &dto.ReceiveRequest{
		SourceName:  sourceName,
		Body:        ctx.PostBody(),
		ContentType: string(ctx.Request.Header.ContentType()),
		Signature:   signature,
		Headers:     collectHeaders(ctx),
		RemoteAddr:  ctx.RemoteAddr().String(),
	}

	resp, err := h.useCase.Receive(ctx, req)
	if err != nil {
		status, message := h.mapper.MapErrorToHttp(err)
		if status >= fasthttp.StatusInternalServerError {
			h.logger.Error().Err(err).
				Str("source", sourceName).
				Msg("Webhook request failed")
		}
		httputil.WriteErrorResponse(ctx, message, status)
		return
	}

	httputil.WriteResponse(ctx, resp)
}

// collectHeaders snapshots request headers for the webhook log, excluding
// the signature value itself.
func collectHeaders(ctx *fasthttp.RequestCtx) string {
	var b strings.Builder
	ctx.Request.Header.VisitAll(func(key, value []byte) {
		name := string(key)
		if strings.EqualFold(name, "X-Hub-Signature-256") || strings.EqualFold(name, "X-Signature") {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", name, value)
	})
	return b.String()
}
