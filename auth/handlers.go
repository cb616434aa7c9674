package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/user/reliefhub-go/apperror"
)

// Handlers wraps the AuthService to provide HTTP handlers. It does no more
// than translate between JSON and service calls; every rule about who may
// register or log in lives in the service.
type Handlers struct {
	service *AuthService
	l       *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService, l *zap.Logger) *Handlers {
	return &Handlers{service: service, l: l}
}

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user. The password is stored hashed; nothing is echoed back.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.RegisterResponse "User registered successfully"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input, or the user already exists"
// @Failure 503 {object} apperror.ErrorResponse "Store unavailable"
// @Router /api/v1/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		// Decoding only checks that the body is well-formed JSON. Missing
		// fields decode as empty strings and are rejected by the service.
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperror.WriteError(w, apperror.NewBadRequestError("invalid request body: "+err.Error(), err))
			return
		}

		// r.Context() is cancelled when the client goes away, which aborts any
		// store call still in flight.
		resp, err := h.service.Register(r.Context(), req)
		if err != nil {
			// Respond maps the AppError type to a status code and logs
			// server-side failures before writing the envelope.
			apperror.Respond(h.l, w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, resp)
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Exchanges an email and password for a signed access token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.LoginResponse "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input"
// @Failure 401 {object} apperror.ErrorResponse "Invalid email or password"
// @Failure 503 {object} apperror.ErrorResponse "Store unavailable"
// @Router /api/v1/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperror.WriteError(w, apperror.NewBadRequestError("invalid request body: "+err.Error(), err))
			return
		}

		// Unknown email and wrong password come back as the same error, so
		// the response gives no hint which accounts exist.
		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			apperror.Respond(h.l, w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, resp)
	}
}
