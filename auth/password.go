package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/reliefhub-go/config"
)

// PasswordHasher produces salted one-way hashes and checks passwords against them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. A mismatch is (false, nil);
	// an error means the hash itself could not be checked.
	Verify(hash, password string) (bool, error)
}

// bcryptMaxPasswordLen is the most input bcrypt will hash. GenerateFromPassword
// rejects anything longer with bcrypt.ErrPasswordTooLong.
const bcryptMaxPasswordLen = 72

// BcryptHasher hashes with bcrypt at a fixed cost.
//
// bcrypt only looks at the first 72 bytes of a password, and x/crypto refuses
// longer input outright. Rather than truncating (which would let two long
// passwords sharing a prefix match the same hash) longer passwords are hashed
// with argon2id instead. verifyPassword picks the algorithm from the stored
// hash prefix, so callers never need to know which one was used.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	if len(password) > bcryptMaxPasswordLen {
		return Argon2idHasher{}.Hash(password)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h BcryptHasher) Verify(hash, password string) (bool, error) {
	return verifyPassword(hash, password)
}

// Argon2idHasher hashes with argon2id. A nil Params means argon2id.DefaultParams.
type Argon2idHasher struct {
	Params *argon2id.Params
}

func (h Argon2idHasher) Hash(password string) (string, error) {
	params := h.Params
	if params == nil {
		params = argon2id.DefaultParams
	}
	hashed, err := argon2id.CreateHash(password, params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}

func (h Argon2idHasher) Verify(hash, password string) (bool, error) {
	return verifyPassword(hash, password)
}

// verifyPassword picks the algorithm from the stored hash, so accounts keep
// working after PASSWORD_HASHER changes.
func verifyPassword(hash, password string) (bool, error) {
	if strings.HasPrefix(hash, "$argon2id$") {
		match, _, err := argon2id.CheckHash(password, hash)
		if err != nil {
			return false, fmt.Errorf("check argon2id hash: %w", err)
		}
		return match, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("check bcrypt hash: %w", err)
	}
}

// NewPasswordHasher returns the hasher configured by cfg.
func NewPasswordHasher(cfg *config.AuthConfig) (PasswordHasher, error) {
	switch cfg.PasswordHasher {
	case config.HasherBcrypt, "":
		return BcryptHasher{Cost: cfg.BcryptCost}, nil
	case config.HasherArgon2id:
		return Argon2idHasher{}, nil
	}
	return nil, fmt.Errorf("unknown password hasher %q", cfg.PasswordHasher)
}
