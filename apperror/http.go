package apperror

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// WriteJSON serializes data to JSON and writes it with the given status.
// A nil data writes the literal `null`, which some endpoints return on purpose.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; the best we can do is append a marker.
		_, _ = w.Write([]byte(`{"success":false,"kind":"internal_error","message":"failed to encode response"}`))
	}
}

// WriteError renders err as the standard error envelope. Errors that are not
// *AppError are reported as a generic InternalError without leaking their text.
func WriteError(w http.ResponseWriter, err error) {
	appErr, ok := FromError(err)
	if !ok {
		appErr = NewInternalError("an unexpected error occurred", err)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

// Respond writes err like WriteError and logs it first when it is a server
// side failure. Client errors are left to the request logger.
func Respond(l *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := FromError(err)
	if !ok {
		appErr = NewInternalError("an unexpected error occurred", err)
	}
	if appErr.StatusCode() >= http.StatusInternalServerError {
		l.Error(appErr.Message,
			zap.String("kind", appErr.Kind()),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(appErr.Err),
		)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
