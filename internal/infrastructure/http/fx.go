package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/jota-news/news-engine/config"
	classificationHTTP "github.com/jota-news/news-engine/internal/domain/classification/delivery/http"
	newsHTTP "github.com/jota-news/news-engine/internal/domain/news/delivery/http"
	webhookHTTP "github.com/jota-news/news-engine/internal/domain/webhook/delivery/http"
	"github.com/jota-news/news-engine/internal/infrastructure/http/server"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(NewServerFx),
	fx.Invoke(registerRoutes),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	serviceCfg *config.ServiceConfig,
	webhookCfg *config.WebhookConfig,
	logger zerolog.Logger,
) *server.Server {
	srv := server.NewServer(serviceCfg.Port, webhookCfg.MaxBodyBytes, logger)

	srv.RegisterMetrics()
	srv.RegisterHealth()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

func registerRoutes(
	srv *server.Server,
	newsRouter *newsHTTP.Router,
	webhookRouter *webhookHTTP.Router,
	classificationRouter *classificationHTTP.Router,
) {
	newsRouter.RegisterRoutes(srv.Router)
	webhookRouter.RegisterRoutes(srv.Router)
	classificationRouter.RegisterRoutes(srv.Router)
}
