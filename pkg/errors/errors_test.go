package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
	}{
		{"validation", NewValidationError("bad pin"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("book"), ErrorTypeNotFound, http.StatusNotFound},
		{"unauthorized", NewUnauthorizedError(""), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"database", NewDatabaseError("insert", fmt.Errorf("boom")), ErrorTypeDatabase, http.StatusInternalServerError},
		{"external", NewExternalError("gemini", fmt.Errorf("boom")), ErrorTypeExternal, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.StackTrace)
		})
	}
}

func TestWrapKeepsClassification(t *testing.T) {
	base := NewNotFoundError("book")
	wrapped := Wrap(base, "update book")

	assert.True(t, IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "update book")

	plain := Wrap(fmt.Errorf("io"), "read")
	assert.False(t, IsAppError(plain))
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestErrorHandler_Handle(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), false)

	t.Run("app error keeps status and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)

		h.Handle(w, r, NewUnauthorizedError("비밀번호가 일치하지 않습니다."))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Error)
		assert.Equal(t, "UNAUTHORIZED", body.Type)
		assert.Equal(t, "비밀번호가 일치하지 않습니다.", body.Message)
	})

	t.Run("plain error is hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		h.Handle(w, r, fmt.Errorf("secret detail"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret detail")
	})

	t.Run("debug adds stack trace", func(t *testing.T) {
		debug := NewErrorHandler(zap.NewNop(), true)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		debug.Handle(w, r, NewNotFoundError("book"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "book not found", body.Message)
		assert.Contains(t, body.Details, "stack_trace")
	})
}
