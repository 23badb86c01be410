package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppError_Constructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		errType    ErrorType
		httpStatus int
	}{
		{"bad request", NewBadRequestError("At least 5 responses are required for analysis"), ErrorTypeBadRequest, http.StatusBadRequest},
		{"unauthenticated", NewUnauthenticatedError(""), ErrorTypeUnauthenticated, http.StatusUnauthorized},
		{"classifier", NewClassifierError("no valid choice", nil), ErrorTypeClassifier, http.StatusInternalServerError},
		{"source missing", NewSourceMissingError("src3"), ErrorTypeSourceMissing, http.StatusNotFound},
		{"user not found", NewUserNotFoundError("u1"), ErrorTypeUserNotFound, http.StatusNotFound},
		{"persistence", NewPersistenceError("create", errors.New("boom")), ErrorTypePersistence, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.True(t, IsType(tt.err, tt.errType))
		})
	}

	assert.Equal(t, "User not authenticated", NewUnauthenticatedError("").Message)
	assert.Equal(t, "Original object not found: src3", NewSourceMissingError("src3").Message)
}

func TestAppError_WrappingSurvivesErrorsAs(t *testing.T) {
	cause := errors.New("throughput exceeded")
	wrapped := fmt.Errorf("materialize: %w", NewPersistenceError("create", cause))

	assert.True(t, IsPersistence(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, ReasonOf(wrapped), "throughput exceeded")
	assert.False(t, IsClassifier(wrapped))
}

func TestErrorHandler_Handle(t *testing.T) {
	t.Run("Should hide 5xx detail outside debug", func(t *testing.T) {
		h := NewErrorHandler(zap.NewNop(), false).WithInternalMessage("AI analysis failed")
		rec := httptest.NewRecorder()

		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/arti/analyze", nil), NewClassifierError("model said no", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "AI analysis failed", body["message"])
		_, hasError := body["error"]
		assert.False(t, hasError)
	})

	t.Run("Should expose 5xx detail in debug", func(t *testing.T) {
		h := NewErrorHandler(zap.NewNop(), true).WithInternalMessage("AI analysis failed")
		rec := httptest.NewRecorder()

		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/arti/analyze", nil), NewClassifierError("model said no", nil))

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "model said no", body.Error)
	})

	t.Run("Should pass 4xx message through", func(t *testing.T) {
		h := NewErrorHandler(zap.NewNop(), false)
		rec := httptest.NewRecorder()

		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/arti/analyze", nil), NewBadRequestError("Each response must have both question and answer fields"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Each response must have both question and answer fields", body.Message)
		assert.Empty(t, body.Error)
	})

	t.Run("Should recover panics", func(t *testing.T) {
		h := NewErrorHandler(zap.NewNop(), false)
		rec := httptest.NewRecorder()
		panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") })

		h.Middleware(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
