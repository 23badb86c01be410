package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"museum-backend/pkg/auth"
	pkgerrors "museum-backend/pkg/errors"
)

// Headers set by the Lambda entrypoint from API Gateway authorizer claims
const (
	HeaderGatewayAuthorized = "X-API-Gateway-Authorized"
	HeaderUserID            = "X-User-ID"
	HeaderUserEmail         = "X-User-Email"
	HeaderUserName          = "X-User-Name"
)

// AuthConfig configures Authenticate
type AuthConfig struct {
	Validator *auth.JWTValidator
	// TrustGateway accepts the principal forwarded by the Lambda entrypoint.
	// Off outside Lambda, where the headers would be client controlled.
	TrustGateway bool
}

// Authenticate attaches the caller to the request context or answers 401
func Authenticate(cfg AuthConfig, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, reason := principal(cfg, r)
			if user == nil {
				logger.Debug("Authentication rejected",
					zap.String("reason", reason),
					zap.String("path", r.URL.Path),
					zap.String("ip", clientIP(r)),
				)
				errorHandler.Handle(w, r, pkgerrors.NewUnauthenticatedError(""))
				return
			}

			ctx := auth.SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func principal(cfg AuthConfig, r *http.Request) (*auth.UserContext, string) {
	if cfg.TrustGateway && r.Header.Get(HeaderGatewayAuthorized) == "true" {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			return nil, "missing user context from API Gateway"
		}
		return &auth.UserContext{
			UserID: userID,
			Email:  r.Header.Get(HeaderUserEmail),
			Name:   r.Header.Get(HeaderUserName),
		}, ""
	}

	if cfg.Validator == nil {
		return nil, "no token validator configured"
	}
	token := extractToken(r)
	if token == "" {
		return nil, auth.ErrMissingToken.Error()
	}
	claims, err := cfg.Validator.ValidateToken(token)
	if err != nil {
		return nil, err.Error()
	}
	return &auth.UserContext{UserID: claims.UserID(), Email: claims.Email, Name: claims.Name}, ""
}

// extractToken reads a bearer token from the Authorization header or the auth_token cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// clientIP extracts the client IP address. chi's RealIP has already folded
// X-Forwarded-For and X-Real-IP into RemoteAddr.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
