package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"marketplace/internal/domain"
	"marketplace/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionCookie is the cookie the dashboard front end stores the access token in
const SessionCookie = "__session"

var (
	errMissingToken  = errors.New("missing authorization header")
	errInvalidHeader = errors.New("invalid authorization header format")
)

// TokenValidator turns an access token into verified claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// Authenticate attaches the caller's session when the request carries a valid
// token. Requests without one continue with no session, so services can
// answer with their own Unauthenticated error.
func Authenticate(tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessionFromRequest(r, tokens)
			if err != nil {
				if !errors.Is(err, errMissingToken) {
					logger.Debug("Ignoring unusable token", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireAuth validates JWT tokens and rejects requests that carry none
func RequireAuth(tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessionFromRequest(r, tokens)
			switch {
			case err == nil:
			case errors.Is(err, errMissingToken), errors.Is(err, errInvalidHeader):
				logger.Debug("Rejected request without usable credentials", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, err.Error())
				return
			case errors.Is(err, jwt.ErrTokenExpired):
				logger.Debug("Token expired")
				RespondWithError(w, http.StatusUnauthorized, "token expired")
				return
			default:
				logger.Debug("Token validation failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", session.UserID.String()),
				zap.String("role", string(session.Role)),
			)

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func sessionFromRequest(r *http.Request, tokens TokenValidator) (*domain.Session, error) {
	tokenString, err := tokenFromRequest(r)
	if err != nil {
		return nil, err
	}

	claims, err := tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	return claims.Session(), nil
}

// tokenFromRequest reads the bearer token, falling back to the session cookie
func tokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errInvalidHeader
		}
		return parts[1], nil
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", errMissingToken
}

// WithSession returns a copy of ctx carrying session
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the caller's session, or nil when there is none
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey).(*domain.Session)
	return session
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	session := SessionFromContext(ctx)
	if session == nil {
		return uuid.Nil, false
	}
	return session.UserID, true
}

// GetUserRole extracts user role from request context
func GetUserRole(ctx context.Context) (domain.Role, bool) {
	session := SessionFromContext(ctx)
	if session == nil {
		return "", false
	}
	return session.Role, true
}
