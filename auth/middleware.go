package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/reliefhub-go/apperror"
)

// JWTMiddleware verifies the bearer token in the Authorization header and
// stores its claims in the request context. Requests without a valid token
// are answered with 401 and never reach next.
func JWTMiddleware(tokens *TokenIssuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperror.WriteError(w, apperror.NewUnauthorizedError("Authorization header is missing", nil))
				return
			}

			// The Authorization header should be in the format "Bearer {token}".
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				apperror.WriteError(w, apperror.NewUnauthorizedError("Authorization header format must be Bearer {token}", nil))
				return
			}

			// Verify covers both the signature and the expiry. Which of them
			// failed only matters for the message below.
			claims, err := tokens.Verify(parts[1])
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "Token has expired"
				}
				apperror.WriteError(w, apperror.NewUnauthorizedError(msg, err))
				return
			}

			// Handlers further down read the caller's email with
			// EmailFromContext instead of parsing the header again.
			next.ServeHTTP(w, r.WithContext(NewContextWithClaims(r.Context(), claims)))
		})
	}
}
