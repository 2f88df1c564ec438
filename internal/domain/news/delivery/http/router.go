package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers news HTTP routes
type Router struct {
	handler *Handler
	logger  zerolog.Logger
}

// NewRouter creates a new news router
func NewRouter(handler *Handler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers news routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.POST("/api/v1/news", r.handler.Create)
	rt.GET("/api/v1/news", r.handler.List)
	rt.GET("/api/v1/news/{id}", r.handler.Get)
	rt.PUT("/api/v1/news/{id}", r.handler.Update)
	rt.PATCH("/api/v1/news/{id}", r.handler.Update)
	rt.DELETE("/api/v1/news/{id}", r.handler.Delete)
	rt.POST("/api/v1/news/{id}/view", r.handler.RecordView)
	rt.POST("/api/v1/news/{id}/share", r.handler.RecordShare)
	rt.GET("/api/v1/categories", r.handler.ListCategories)
	rt.GET("/api/v1/tags", r.handler.ListTags)
}
