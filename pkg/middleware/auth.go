package middleware

import (
	"errors"
	"net/http"
	"strings"

	"flight-booking/internal/apperr"
	"flight-booking/internal/data/entity"
	"flight-booking/internal/policy"
	"flight-booking/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the Bearer JWT and puts the caller in the request context.
func Auth(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}
			token := parts[1]

			claims, err := utils.ParseToken(token, secret)
			if err != nil {
				logger.Warn("Invalid or expired token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			actor, err := claims.Actor()
			if err != nil {
				logger.Warn("Token carries a bad subject", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetActorContext(r.Context(), actor)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission rejects callers whose role lacks action. Must run after Auth.
func RequirePermission(action policy.Action, logger *zap.Logger) func(http.Handler) http.Handler {
	return guard(logger, string(action), func(actor entity.Actor) error {
		return policy.Authorize(actor.Role, action)
	})
}

// RequireView rejects callers whose role may not view resource. Must run after Auth.
func RequireView(resource policy.Resource, logger *zap.Logger) func(http.Handler) http.Handler {
	return guard(logger, "view "+string(resource), func(actor entity.Actor) error {
		return policy.AuthorizeView(actor.Role, resource)
	})
}

func guard(logger *zap.Logger, what string, check func(entity.Actor) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := utils.GetActorFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if err := check(actor); err != nil {
				logger.Warn("Access denied",
					zap.String("user_id", actor.ID.String()),
					zap.String("role", string(actor.Role)),
					zap.String("requires", what),
					zap.String("path", r.URL.Path),
					zap.Bool("unknown_role", errors.Is(err, apperr.ErrUnknownRole)),
				)
				utils.ResponseForbidden(w, "You do not have permission to perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
