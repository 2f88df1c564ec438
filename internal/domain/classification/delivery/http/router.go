package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers classification HTTP routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new classification router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers classification routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.POST("/api/v1/news/{id}/classify", r.handler.Classify)
	rt.POST("/api/v1/classification-results/{id}/accept", r.handler.Accept)
}
