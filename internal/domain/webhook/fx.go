package webhook

import (
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/jota-news/news-engine/internal/domain/webhook/delivery/http"
	"github.com/jota-news/news-engine/internal/domain/webhook/delivery/kafka"
	"github.com/jota-news/news-engine/internal/domain/webhook/deps"
	"github.com/jota-news/news-engine/internal/domain/webhook/repository/postgres"
	"github.com/jota-news/news-engine/internal/domain/webhook/usecase/business"
	"github.com/jota-news/news-engine/internal/infrastructure/cache"
)

func newRateLimiter(logger zerolog.Logger) deps.RateLimiter {
	return cache.NewRateLimiter(time.Minute, logger)
}

// Module provides webhook domain dependencies
var Module = fx.Module(
	"webhook",
	fx.Provide(
		postgres.NewSourceRepository,
		postgres.NewLogRepository,
		newRateLimiter,
		business.NewUseCase,
		kafka.NewHandlers,
		http.NewHandler,
		http.NewRouter,
	),
)
