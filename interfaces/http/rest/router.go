package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"museum-backend/interfaces/http/rest/handlers"
	"museum-backend/interfaces/http/rest/middleware"
	"museum-backend/pkg/auth"
	"museum-backend/pkg/common"
	pkgerrors "museum-backend/pkg/errors"
	"museum-backend/pkg/observability"
)

// ReadinessCheck reports whether a dependency can serve traffic
type ReadinessCheck func(ctx context.Context) error

// RouterConfig holds the toggles of the HTTP surface
type RouterConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
	RateLimit      int
	RateWindow     string
	RequestTimeout time.Duration
}

// Router creates and configures the HTTP router
type Router struct {
	onboarding   *handlers.OnboardingHandler
	auth         middleware.AuthConfig
	limiter      *auth.IPRateLimiter
	errorHandler *pkgerrors.ErrorHandler
	collector    *observability.Collector
	tracer       *observability.Tracer
	readiness    []ReadinessCheck
	config       RouterConfig
	logger       *zap.Logger
}

// NewRouter creates a new router instance. collector, tracer, limiter and readiness may be nil.
func NewRouter(
	onboarding *handlers.OnboardingHandler,
	authConfig middleware.AuthConfig,
	limiter *auth.IPRateLimiter,
	errorHandler *pkgerrors.ErrorHandler,
	collector *observability.Collector,
	tracer *observability.Tracer,
	config RouterConfig,
	logger *zap.Logger,
	readiness ...ReadinessCheck,
) *Router {
	return &Router{
		onboarding:   onboarding,
		auth:         authConfig,
		limiter:      limiter,
		errorHandler: errorHandler,
		collector:    collector,
		tracer:       tracer,
		readiness:    readiness,
		config:       config,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errorHandler.Middleware)
	router.Use(rt.tracer.Middleware)
	var recorder middleware.HTTPRecorder
	if rt.collector != nil {
		recorder = rt.collector
	}
	router.Use(middleware.Logger(rt.logger, recorder))
	if rt.config.RequestTimeout > 0 {
		router.Use(chimiddleware.Timeout(rt.config.RequestTimeout))
	}

	if rt.config.EnableCORS {
		origins := rt.config.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.collector != nil {
		router.Method(http.MethodGet, "/metrics", rt.collector.Handler())
	}

	router.Route("/arti", func(r chi.Router) {
		if rt.limiter != nil {
			r.Use(middleware.RateLimit(rt.limiter, rt.config.RateLimit, rt.config.RateWindow, rt.errorHandler, rt.logger))
		}
		r.Use(middleware.Authenticate(rt.auth, rt.errorHandler, rt.logger))
		r.Post("/analyze", rt.onboarding.Analyze)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	_ = common.RespondJSON(w, http.StatusOK, "healthy", nil)
}

// readinessCheck runs every registered dependency check
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	for _, check := range rt.readiness {
		if err := check(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			rt.errorHandler.HandleStatus(w, req, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	_ = common.RespondJSON(w, http.StatusOK, "ready", nil)
}
