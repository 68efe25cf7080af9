package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var envelopeStatuses = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusConflict,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusServiceUnavailable,
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// Feature: marketplace-dashboard, Property 51: Errors have consistent structure
func TestProperty_ErrorsHaveConsistentStructure(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every error carries code, raw message and an RFC3339 timestamp", prop.ForAll(
		func(index int, message string) bool {
			status := envelopeStatuses[index]

			w := httptest.NewRecorder()
			RespondWithError(w, status, message)

			var response ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				return false
			}
			if _, err := time.Parse(time.RFC3339, response.Error.Timestamp); err != nil {
				return false
			}
			return w.Code == status &&
				w.Header().Get("Content-Type") == "application/json" &&
				response.Error.Code == http.StatusText(status) &&
				response.Error.Message == message &&
				response.Error.Details == nil
		},
		gen.IntRange(0, len(envelopeStatuses)-1),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRespondWithErrorDetails(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithErrorDetails(w, http.StatusConflict, "A category with the same URL already exists", map[string]interface{}{"field": "url"})

	response := decodeEnvelope(t, w)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Conflict", response.Error.Code)
	assert.Equal(t, "url", response.Error.Details["field"])
}

func TestRespondWithValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		errors      []ValidationError
		wantMessage string
		wantDetails bool
	}{
		{
			name:        "field errors with default message",
			errors:      []ValidationError{{Field: "url", Message: "url must be lowercase letters, digits and dashes"}},
			wantMessage: "validation failed",
			wantDetails: true,
		},
		{
			name:        "reason only",
			message:     "The selected subcategory does not belong to the selected category",
			wantMessage: "The selected subcategory does not belong to the selected category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondWithValidationErrors(w, tt.message, tt.errors)

			response := decodeEnvelope(t, w)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMessage, response.Error.Message)
			if !tt.wantDetails {
				assert.Nil(t, response.Error.Details)
				return
			}
			entries, ok := response.Error.Details["validation_errors"].([]interface{})
			require.True(t, ok)
			require.Len(t, entries, 1)
			assert.Equal(t, "url", entries[0].(map[string]interface{})["field"])
		})
	}
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Store has been created."})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Store has been created."}`, w.Body.String())
}

func TestErrorHandlingMiddleware_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := middleware.RequestID(ErrorHandlingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/categories", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeEnvelope(t, w).Error.Message)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestErrorHandlingMiddleware_RepanicsAbort(t *testing.T) {
	handler := ErrorHandlingMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	})
}
