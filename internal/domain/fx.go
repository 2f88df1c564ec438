package domain

import (
	"go.uber.org/fx"

	"github.com/jota-news/news-engine/internal/domain/classification"
	"github.com/jota-news/news-engine/internal/domain/news"
	"github.com/jota-news/news-engine/internal/domain/notification"
	"github.com/jota-news/news-engine/internal/domain/webhook"
)

// Module aggregates all domain modules
var Module = fx.Module(
	"domain",
	news.Module,
	classification.Module,
	webhook.Module,
	notification.Module,
)
