package classification

import (
	"go.uber.org/fx"

	"github.com/jota-news/news-engine/internal/domain/classification/delivery/http"
	"github.com/jota-news/news-engine/internal/domain/classification/delivery/kafka"
	"github.com/jota-news/news-engine/internal/domain/classification/engine"
	"github.com/jota-news/news-engine/internal/domain/classification/repository/http_clients/inference"
	"github.com/jota-news/news-engine/internal/domain/classification/repository/postgres"
	"github.com/jota-news/news-engine/internal/domain/classification/usecase/business"
)

// Module provides classification domain dependencies
var Module = fx.Module(
	"classification",
	fx.Provide(
		postgres.NewRuleRepository,
		postgres.NewModelRepository,
		postgres.NewResultRepository,
		postgres.NewTrainingDataRepository,
		postgres.NewStatisticRepository,
		inference.NewClient,
		engine.NewEngine,
		business.NewUseCase,
		kafka.NewHandlers,
		http.NewHandler,
		http.NewRouter,
	),
)
