package auth

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/user/reliefhub-go/apperror"
	"github.com/user/reliefhub-go/store"
)

const (
	msgRegistered         = "User registered successfully"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid email or password"
	msgLoggedIn           = "Login successful"
)

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	users    store.UserStore
	hasher   PasswordHasher
	tokens   *TokenIssuer
	validate *validator.Validate
	l        *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users store.UserStore, hasher PasswordHasher, tokens *TokenIssuer, l *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		validate: newValidator(),
		l:        l,
	}
}

// Register creates a user unless one with the same email exists. The email is
// stored and matched exactly as given.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, apperror.NewDuplicateUserError(msgUserExists, nil)
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperror.NewStoreUnavailableError("failed to look up user", err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &store.User{Name: req.Name, Email: req.Email, Password: hashed}
	if err := s.users.Insert(ctx, user); err != nil {
		// Another registration for the same email won the race between the
		// lookup and the insert; the unique index rejected this one.
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, apperror.NewDuplicateUserError(msgUserExists, err)
		}
		return nil, apperror.NewStoreUnavailableError("failed to create user", err)
	}

	s.l.Info("user registered", zap.String("user_id", user.ID.Hex()))
	return &RegisterResponse{Success: true, Message: msgRegistered}, nil
}

// Login checks the credentials and returns a signed token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.NewInvalidCredentialsError(msgInvalidCredentials, nil)
		}
		return nil, apperror.NewStoreUnavailableError("failed to look up user", err)
	}

	match, err := s.hasher.Verify(user.Password, req.Password)
	if err != nil {
		// A hash we cannot parse is treated as a failed login, but logged.
		s.l.Warn("stored password hash could not be checked", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}
	if !match {
		return nil, apperror.NewInvalidCredentialsError(msgInvalidCredentials, nil)
	}

	token, _, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}
	return &LoginResponse{Success: true, Message: msgLoggedIn, Token: token}, nil
}

// check runs the presence checks declared on the request's validate tags.
func (s *AuthService) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewInternalError("failed to validate request", err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return apperror.NewValidationError(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")), err)
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
