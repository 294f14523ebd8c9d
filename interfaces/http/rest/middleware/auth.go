package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"stackmap-backend/pkg/auth"
	"stackmap-backend/pkg/common"
)

// Authenticator validates the Bearer token and the X-Organization-ID
// header, then places the user context on the request context. Every
// API route sits behind it.
func Authenticator(validator *auth.JWTValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				common.RespondError(w, http.StatusUnauthorized,
					common.StandardErrorCodes.Unauthorized, "missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized,
					common.StandardErrorCodes.Unauthorized, "invalid or expired token")
				return
			}

			orgID := r.Header.Get("X-Organization-ID")
			if orgID == "" {
				common.RespondError(w, http.StatusBadRequest,
					common.StandardErrorCodes.BadRequest, "X-Organization-ID header is required")
				return
			}

			user := &auth.UserContext{
				UserID:         claims.UserID,
				OrganizationID: orgID,
				Email:          claims.Email,
				Roles:          claims.Roles,
			}

			ctx := auth.SetUserInContext(r.Context(), user)
			ctx = common.EnrichContext(ctx, claims.UserID, orgID, common.ExtractRequestID(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit rejects requests once a caller exceeds its per-minute
// budget. Authenticated requests are keyed by user, others by IP.
func RateLimit(limiter auth.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				key = user.UserID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil || !allowed {
				common.RespondError(w, http.StatusTooManyRequests,
					common.StandardErrorCodes.TooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
