//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"museum-backend/infrastructure/config"
)

// InfrastructureSet provides clients, stores and observability
var InfrastructureSet = wire.NewSet(
	ProvideLogger,
	ProvideTracer,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideThemeFile,
	ProvideCatalog,
	ProvideCollector,
	ProvideMetrics,
	ProvideOnboardingMetrics,
	ProvideArtifactRepository,
	ProvideUserRepository,
	ProvideUserLock,
	ProvideSourceCache,
	ProvideEventPublisher,
	ProvideChatCompleter,
)

// ApplicationSet provides the onboarding pipeline
var ApplicationSet = wire.NewSet(
	ProvideClassifier,
	ProvideTemplateResolver,
	ProvideMaterializer,
	ProvideUserLinker,
	ProvideAnalyzeOnboardingHandler,
)

// InterfaceSet provides the HTTP surface
var InterfaceSet = wire.NewSet(
	ProvideErrorHandler,
	ProvideOnboardingHandler,
	ProvideAuthConfig,
	ProvideRateLimiter,
	ProvideRouter,
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	InfrastructureSet,
	ApplicationSet,
	InterfaceSet,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The returned cleanup
// releases background workers and flushes the logger.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
