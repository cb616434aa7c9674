package apperror

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
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusAndKind(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
		kind   string
	}{
		{NewDuplicateUserError("User already exists", nil), http.StatusBadRequest, "duplicate_user"},
		{NewInvalidCredentialsError("Invalid email or password", nil), http.StatusUnauthorized, "invalid_credentials"},
		{NewInvalidIdentifierError("bad id", nil), http.StatusBadRequest, "invalid_identifier"},
		{NewValidationError("email is required", nil), http.StatusBadRequest, "invalid_input"},
		{NewNotFoundError("missing", nil), http.StatusNotFound, "not_found"},
		{NewUnauthorizedError("no token", nil), http.StatusUnauthorized, "unauthorized"},
		{NewStoreUnavailableError("store down", nil), http.StatusServiceUnavailable, "store_unavailable"},
		{NewInternalError("boom", nil), http.StatusInternalServerError, "internal_error"},
		{NewAppError(ErrorType(99), "?", nil), http.StatusInternalServerError, "unknown_error"},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.StatusCode())
			assert.Equal(t, tc.kind, tc.err.Kind())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreUnavailableError("failed to list", cause)

	assert.Equal(t, "failed to list: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("handler: %w", NewDuplicateUserError("User already exists", nil))
	assert.True(t, IsDuplicateUser(wrapped))
	ae, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, DuplicateUserError, ae.Type)

	_, ok = FromError(cause)
	assert.False(t, ok)
	_, ok = FromError(nil)
	assert.False(t, ok)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewInvalidCredentialsError("Invalid email or password", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Success: false, Kind: "invalid_credentials", Message: "Invalid email or password"}, body)
}

func TestWriteErrorHidesPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: password authentication failed for user postgres"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "postgres")
}

func TestWriteJSONNull(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, nil)
	assert.Equal(t, "null\n", rec.Body.String())
}

func TestRespondLogsServerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)
	req := httptest.NewRequest(http.MethodGet, "/relief-goods", nil)

	Respond(l, httptest.NewRecorder(), req, NewValidationError("email is required", nil))
	assert.Zero(t, logs.Len())

	rec := httptest.NewRecorder()
	Respond(l, rec, req, NewStoreUnavailableError("failed to list relief goods", errors.New("timeout")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "failed to list relief goods", entry.Message)
	assert.Equal(t, "store_unavailable", entry.ContextMap()["kind"])
	assert.Equal(t, "timeout", entry.ContextMap()["error"])
}
