package app

import (
	"go.uber.org/fx"

	"github.com/jota-news/news-engine/config"
	"github.com/jota-news/news-engine/internal/domain"
	"github.com/jota-news/news-engine/internal/infrastructure/database"
	"github.com/jota-news/news-engine/internal/infrastructure/http"
	"github.com/jota-news/news-engine/internal/infrastructure/kafka"
	"github.com/jota-news/news-engine/internal/infrastructure/logger"
	"github.com/jota-news/news-engine/internal/infrastructure/metrics"
)

// CreateApp creates the fx application with all dependencies
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),
		fx.Provide(logger.NewLogger),
		database.Module,
		metrics.Module,
		kafka.Module,
		http.Module,
		domain.Module,
	)
}
