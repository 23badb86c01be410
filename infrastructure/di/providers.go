package di

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	apphandlers "museum-backend/application/commands/handlers"
	"museum-backend/application/ports"
	"museum-backend/application/services"
	"museum-backend/domain/catalog"
	"museum-backend/infrastructure/config"
	"museum-backend/infrastructure/llm"
	"museum-backend/infrastructure/messaging/eventbridge"
	"museum-backend/infrastructure/persistence"
	"museum-backend/infrastructure/persistence/dynamodb"
	"museum-backend/infrastructure/persistence/memory"
	"museum-backend/interfaces/http/rest"
	"museum-backend/interfaces/http/rest/handlers"
	"museum-backend/interfaces/http/rest/middleware"
	"museum-backend/pkg/auth"
	pkgerrors "museum-backend/pkg/errors"
	"museum-backend/pkg/observability"
)

const serviceName = "museum-backend"

// ProvideLogger creates a new logger instance. Cleanup flushes buffered entries.
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	var zcfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zcfg.Level = level
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(zap.String("service", serviceName), zap.String("environment", cfg.Environment))
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideTracer creates the X-Ray tracer. It is a no-op unless ENABLE_TRACING is set.
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config, tracer *observability.Tracer) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}
	tracer.InstrumentAWS(&awsCfg)
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client. DYNAMODB_ENDPOINT points it at DynamoDB Local.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideThemeFile loads the theme catalog document
func ProvideThemeFile(cfg *config.Config) (*config.ThemeFile, error) {
	return config.LoadThemeFile(cfg.ThemeCatalogPath)
}

// ProvideCatalog validates the theme catalog
func ProvideCatalog(themes *config.ThemeFile, logger *zap.Logger) (*catalog.Catalog, error) {
	cat, err := themes.Catalog()
	if err != nil {
		return nil, err
	}
	for _, d := range cat.Themes() {
		if cat.Status(d.ID) == catalog.StatusPlaceholder {
			logger.Info("Theme default object pending curation", zap.Int("themeID", d.ID.Int()))
		}
	}
	return cat, nil
}

// ProvideCollector creates the Prometheus collector served on /metrics
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("museum")
}

// ProvideMetrics creates the CloudWatch metrics publisher. Publishing is off unless ENABLE_METRICS is set.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics || cfg.StoreBackend == config.StoreMemory {
		return observability.NewMetrics(cfg.MetricsNamespace, nil, logger)
	}
	return observability.NewMetrics(cfg.MetricsNamespace, client, logger)
}

// ProvideOnboardingMetrics fans onboarding observations out to CloudWatch and Prometheus
func ProvideOnboardingMetrics(metrics *observability.Metrics, collector *observability.Collector) ports.OnboardingMetrics {
	return observability.Recorders{metrics, collector}
}

// ProvideArtifactRepository selects the artifact store for STORE_BACKEND
func ProvideArtifactRepository(
	cfg *config.Config,
	client *awsdynamodb.Client,
	themes *config.ThemeFile,
	collector *observability.Collector,
	logger *zap.Logger,
) ports.ArtifactRepository {
	var repo ports.ArtifactRepository
	if cfg.StoreBackend == config.StoreMemory {
		repo = memory.NewArtifactStore(themes.SourceArtifacts()...)
	} else {
		repo = dynamodb.NewArtifactRepository(client, cfg.ArtifactsTable, logger)
	}
	return persistence.NewInstrumentedArtifactRepository(repo, collector)
}

// ProvideUserRepository selects the user store for STORE_BACKEND.
// The memory store creates users on first link since nothing provisions them locally.
func ProvideUserRepository(
	cfg *config.Config,
	client *awsdynamodb.Client,
	collector *observability.Collector,
	logger *zap.Logger,
) ports.UserRepository {
	var repo ports.UserRepository
	if cfg.StoreBackend == config.StoreMemory {
		repo = memory.NewUserStore(nil, memory.WithAutoCreate())
	} else {
		repo = dynamodb.NewUserRepository(client, cfg.UsersTable, logger)
	}
	return persistence.NewInstrumentedUserRepository(repo, collector)
}

// ProvideUserLock creates the per-user onboarding lock
func ProvideUserLock(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.UserLock {
	if cfg.StoreBackend == config.StoreMemory {
		return memory.NewLock()
	}
	return dynamodb.NewDistributedLock(client, cfg.LocksTable, logger)
}

// ProvideSourceCache creates the source artifact cache
func ProvideSourceCache() (ports.Cache, func()) {
	cache := NewInMemoryCache(time.Minute)
	return cache, cache.Close
}

// ProvideChatCompleter creates the model client for LLM_PROVIDER behind a circuit breaker
func ProvideChatCompleter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.ChatCompleter, error) {
	var completer ports.ChatCompleter
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		completer = llm.NewOpenAICompleter(cfg.LLMModel, cfg.LLMAPIKey, cfg.LLMBaseURL)
	case config.ProviderGemini:
		gemini, err := llm.NewGeminiCompleter(ctx, cfg.LLMAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		completer = gemini
	case config.ProviderMock:
		logger.Warn("Using scripted language model", zap.String("reply", cfg.LLMMockReply))
		return llm.NewScriptedCompleter(cfg.LLMMockReply), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}

	logger.Info("Language model configured",
		zap.String("provider", cfg.LLMProvider),
		zap.String("model", cfg.LLMModel),
	)
	return llm.NewBreakerCompleter(completer, llm.DefaultBreakerConfig("llm-"+cfg.LLMProvider), logger), nil
}

// ProvideClassifier creates the theme classifier
func ProvideClassifier(
	completer ports.ChatCompleter,
	cat *catalog.Catalog,
	cfg *config.Config,
	metrics ports.OnboardingMetrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) ports.Classifier {
	domain := cfg.Domain()
	return llm.NewClassifier(completer, cat, logger,
		llm.WithMaxRetries(domain.ClassifierMaxRetries),
		llm.WithTimeout(domain.ClassifierTimeout),
		llm.WithMetrics(metrics),
		llm.WithTracer(tracer),
	)
}

// ProvideTemplateResolver creates the resolver with the source cache
func ProvideTemplateResolver(
	cat *catalog.Catalog,
	artifacts ports.ArtifactRepository,
	cache ports.Cache,
	cfg *config.Config,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.TemplateResolver {
	return services.NewTemplateResolver(cat, artifacts, logger,
		services.WithSourceCache(cache, cfg.SourceCacheTTL),
		services.WithResolverTracer(tracer),
	)
}

// ProvideMaterializer creates the default-object materializer
func ProvideMaterializer(artifacts ports.ArtifactRepository, tracer *observability.Tracer, logger *zap.Logger) *services.Materializer {
	return services.NewMaterializer(artifacts, ports.SystemClock{}, tracer, logger)
}

// ProvideUserLinker creates the user linker
func ProvideUserLinker(users ports.UserRepository, tracer *observability.Tracer, logger *zap.Logger) *services.UserLinker {
	return services.NewUserLinker(users, tracer, logger)
}

// ProvideEventPublisher publishes to EventBridge when EVENT_BUS_NAME is set and logs otherwise
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" || cfg.StoreBackend == config.StoreMemory {
		return eventbridge.NewLogPublisher(logger)
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideAnalyzeOnboardingHandler wires the onboarding pipeline
func ProvideAnalyzeOnboardingHandler(
	classifier ports.Classifier,
	cat *catalog.Catalog,
	resolver *services.TemplateResolver,
	materializer *services.Materializer,
	linker *services.UserLinker,
	lock ports.UserLock,
	publisher ports.EventPublisher,
	metrics ports.OnboardingMetrics,
	cfg *config.Config,
	logger *zap.Logger,
) *apphandlers.AnalyzeOnboardingHandler {
	return apphandlers.NewAnalyzeOnboardingHandler(
		classifier, cat, resolver, materializer, linker, cfg.Domain(), logger,
		apphandlers.WithUserLock(lock),
		apphandlers.WithEventPublisher(publisher),
		apphandlers.WithOnboardingMetrics(metrics),
	)
}

// ProvideErrorHandler creates the HTTP error renderer. Error detail is exposed in development only.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideOnboardingHandler creates the HTTP handler for POST /arti/analyze
func ProvideOnboardingHandler(
	analyzer *apphandlers.AnalyzeOnboardingHandler,
	errorHandler *pkgerrors.ErrorHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *handlers.OnboardingHandler {
	return handlers.NewOnboardingHandler(analyzer, errorHandler, cfg.MinResponses, logger)
}

// developmentJWTSecret signs tokens for local runs that set no JWT_SECRET
const developmentJWTSecret = "development-secret-change-in-production"

// ProvideAuthConfig creates the authentication settings. In Lambda the API Gateway
// authorizer has already validated the token, so a missing JWT_SECRET is tolerated there.
func ProvideAuthConfig(cfg *config.Config, logger *zap.Logger) (middleware.AuthConfig, error) {
	authCfg := middleware.AuthConfig{TrustGateway: cfg.IsLambda}

	secret := cfg.JWTSecret
	if secret == "" {
		switch {
		case cfg.IsLambda:
			return authCfg, nil
		case cfg.IsProduction():
			return authCfg, errors.New("JWT_SECRET is required")
		default:
			logger.Warn("JWT_SECRET not set, using the development secret")
			secret = developmentJWTSecret
		}
	}

	jwtCfg := auth.JWTConfig{SecretKey: secret, Issuer: cfg.JWTIssuer}
	if cfg.JWTAudience != "" {
		jwtCfg.Audience = strings.Split(cfg.JWTAudience, ",")
	}
	validator, err := auth.NewJWTValidator(jwtCfg)
	if err != nil {
		return authCfg, err
	}
	authCfg.Validator = validator
	return authCfg, nil
}

// ProvideRateLimiter creates the per-IP limiter for the analyze route. A zero
// RATE_LIMIT_RPS disables limiting.
func ProvideRateLimiter(cfg *config.Config, client *awsdynamodb.Client) (*auth.IPRateLimiter, func()) {
	if cfg.RateLimitRPS <= 0 {
		return nil, func() {}
	}
	if cfg.RateLimitDistributed && cfg.StoreBackend == config.StoreDynamoDB {
		return auth.NewIPRateLimiter(auth.NewDistributedRateLimiter(
			client,
			cfg.LocksTable,
			cfg.RateLimitRPS*60,
			time.Minute,
			"ANALYZE",
		)), func() {}
	}

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = cfg.RateLimitRPS
	}
	bucket := auth.NewTokenBucketLimiter(burst, time.Second/time.Duration(cfg.RateLimitRPS))
	return auth.NewIPRateLimiter(bucket), bucket.Stop
}

// ProvideRouter assembles the HTTP surface
func ProvideRouter(
	onboarding *handlers.OnboardingHandler,
	authConfig middleware.AuthConfig,
	limiter *auth.IPRateLimiter,
	errorHandler *pkgerrors.ErrorHandler,
	collector *observability.Collector,
	tracer *observability.Tracer,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	limit, window := cfg.RateLimitBurst, "second"
	if cfg.RateLimitDistributed {
		limit, window = cfg.RateLimitRPS*60, "minute"
	}
	return rest.NewRouter(
		onboarding,
		authConfig,
		limiter,
		errorHandler,
		collector,
		tracer,
		rest.RouterConfig{
			EnableCORS:     cfg.EnableCORS,
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimit:      limit,
			RateWindow:     window,
			RequestTimeout: cfg.LLMTimeout*time.Duration(cfg.LLMMaxRetries+1) + 10*time.Second,
		},
		logger,
	)
}
