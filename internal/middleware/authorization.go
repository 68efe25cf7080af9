package middleware

import (
	"net/http"
	"slices"

	"marketplace/internal/domain"

	"go.uber.org/zap"
)

// RequireRole middleware ensures the user has one of the specified roles
func RequireRole(logger *zap.Logger, allowedRoles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}

			if !slices.Contains(allowedRoles, role) {
				logger.Warn("User role not authorized",
					zap.String("role", string(role)),
					zap.Any("allowed_roles", allowedRoles),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RedirectUnlessRole sends callers without the given role to target.
// Dashboard pages use it instead of answering 401/403.
func RedirectUnlessRole(role domain.Role, target string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !SessionFromContext(r.Context()).HasRole(role) {
				logger.Debug("Redirecting dashboard request",
					zap.String("path", r.URL.Path),
					zap.String("required_role", string(role)),
				)
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
