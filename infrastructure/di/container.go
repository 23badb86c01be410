package di

import (
	"go.uber.org/zap"

	apphandlers "museum-backend/application/commands/handlers"
	"museum-backend/domain/catalog"
	"museum-backend/infrastructure/config"
	"museum-backend/interfaces/http/rest"
	"museum-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Catalog   *catalog.Catalog
	Analyzer  *apphandlers.AnalyzeOnboardingHandler
	Router    *rest.Router
	Collector *observability.Collector
	Tracer    *observability.Tracer
}
