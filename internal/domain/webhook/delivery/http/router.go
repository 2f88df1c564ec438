package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers webhook HTTP routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new webhook router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers webhook routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.POST("/webhooks/receive/{source_name}", r.handler.Receive)
}
