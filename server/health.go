package server

import (
	"net/http"
	"time"

	"github.com/user/reliefhub-go/apperror"
)

// HealthResponse is returned by the root route.
type HealthResponse struct {
	Message   string    `json:"message" example:"Server is running smoothly"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleHealth godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} server.HealthResponse
// @Router / [get]
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apperror.WriteJSON(w, http.StatusOK, HealthResponse{
			Message:   "Server is running smoothly",
			Timestamp: time.Now().UTC(),
		})
	}
}
