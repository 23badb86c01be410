package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"museum-backend/pkg/auth"
	pkgerrors "museum-backend/pkg/errors"
)

// RateLimit rejects callers over the limiter's budget with 429. Limiter errors fail open.
func RateLimit(limiter *auth.IPRateLimiter, limit int, window string, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				logger.Warn("Rate limiter error", zap.Error(err))
			}
			if !allowed {
				errorHandler.Handle(w, r, pkgerrors.NewRateLimitError(limit, window))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
