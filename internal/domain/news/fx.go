package news

import (
	"go.uber.org/fx"

	"github.com/jota-news/news-engine/internal/domain/news/adapter"
	"github.com/jota-news/news-engine/internal/domain/news/delivery/http"
	"github.com/jota-news/news-engine/internal/domain/news/repository/postgres"
	"github.com/jota-news/news-engine/internal/domain/news/usecase/business"
)

// Module provides news domain dependencies
var Module = fx.Module(
	"news",
	fx.Provide(
		postgres.NewNewsRepository,
		postgres.NewCategoryRepository,
		postgres.NewTagRepository,
		postgres.NewProcessingLogRepository,
		adapter.NewNewsUpdater,
		adapter.NewCategoryResolver,
		adapter.NewNewsIngestor,
		adapter.NewNewsReader,
		business.NewUseCase,
		http.NewHandler,
		http.NewRouter,
	),
)
