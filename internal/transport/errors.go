package transport

import (
	"errors"
	"net/http"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var notFoundErrors = []error{
	repository.ErrCategoryNotFound,
	repository.ErrSubCategoryNotFound,
	repository.ErrOfferTagNotFound,
	repository.ErrStoreNotFound,
	repository.ErrProductNotFound,
	repository.ErrVariantNotFound,
	repository.ErrUserNotFound,
}

// requireSession answers 401 when the request carries no session. Handlers
// call it before reading a body so anonymous callers never see decode errors.
func requireSession(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
		return nil, false
	}
	return session, true
}

// respondServiceError maps the service error taxonomy onto the JSON error
// envelope. Unknown errors are logged and reported as "failed to <action>".
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	var (
		unauthorized *service.UnauthorizedError
		invalid      *service.ValidationError
		conflict     *service.ConflictError
		duplicate    *repository.DuplicateError
	)

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		middleware.RespondWithError(w, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
	case errors.As(err, &unauthorized):
		middleware.RespondWithError(w, http.StatusForbidden, unauthorized.Error())
	case errors.As(err, &invalid):
		middleware.RespondWithValidationErrors(w, invalid.Reason, middleware.FormatValidationErrors(invalid))
	case errors.As(err, &conflict):
		middleware.RespondWithErrorDetails(w, http.StatusConflict, conflict.Message, map[string]interface{}{
			"field": conflict.Field,
		})
	case errors.As(err, &duplicate):
		middleware.RespondWithErrorDetails(w, http.StatusConflict, duplicate.Error(), map[string]interface{}{
			"field": duplicate.Field,
		})
	case errors.Is(err, repository.ErrUserAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, repository.ErrUserAlreadyExists.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrInvalidToken):
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
	case errors.Is(err, service.ErrTokenExpired):
		middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
	default:
		for _, target := range notFoundErrors {
			if errors.Is(err, target) {
				middleware.RespondWithError(w, http.StatusNotFound, target.Error())
				return
			}
		}

		logger.Error("Request failed", zap.String("action", action), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// respondDecodeError answers a body that failed to decode or validate
func respondDecodeError(w http.ResponseWriter, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, "", validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

// uuidParam parses a UUID route parameter, answering 400 when it is malformed
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
