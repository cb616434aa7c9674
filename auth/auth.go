// Package auth handles registration, login and bearer-token verification.
//
// Passwords are hashed with bcrypt or argon2id (see PasswordHasher). A
// successful login yields an HS256 JWT whose only application claim is the
// user's email; JWTMiddleware verifies it and exposes the claims through the
// request context.
package auth

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/reliefhub-go/config"
	"github.com/user/reliefhub-go/store"
)

// Module bundles what the router needs from this package.
type Module struct {
	Service  *AuthService
	Handlers *Handlers
	Tokens   *TokenIssuer
}

// NewModule wires the hasher, token issuer, service and handlers from cfg.
func NewModule(cfg *config.AuthConfig, users store.UserStore, l *zap.Logger) (*Module, error) {
	hasher, err := NewPasswordHasher(cfg)
	if err != nil {
		return nil, err
	}
	lifetime := cfg.TokenLifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}
	tokens, err := NewTokenIssuer(cfg.JWTSecret, lifetime)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	service := NewAuthService(users, hasher, tokens, l)
	return &Module{
		Service:  service,
		Handlers: NewHandlers(service, l),
		Tokens:   tokens,
	}, nil
}
