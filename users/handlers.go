package users

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/auth"
)

// UserHandlers provides HTTP handlers for profile reads.
type UserHandlers struct {
	service *UserService
	l       *zap.Logger
}

// NewUserHandlers creates new UserHandlers.
func NewUserHandlers(service *UserService, l *zap.Logger) *UserHandlers {
	return &UserHandlers{service: service, l: l}
}

// HandleGetProfile godoc
// @Summary Get current user's profile
// @Description Returns the name and email of the token holder.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.ProfileResponse "Profile of the authenticated user"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired token"
// @Failure 404 {object} apperror.ErrorResponse "The token's user no longer exists"
// @Router /api/v1/me [get]
func (h *UserHandlers) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := auth.EmailFromContext(r.Context())
		if !ok {
			apperror.Respond(h.l, w, r, apperror.NewUnauthorizedError("no authenticated user in request", nil))
			return
		}

		profile, err := h.service.GetProfile(r.Context(), email)
		if err != nil {
			apperror.Respond(h.l, w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, ProfileResponse{Success: true, Data: *profile})
	}
}
