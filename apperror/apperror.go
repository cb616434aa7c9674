// Package apperror defines a centralized system for application-specific errors.
// Every failure that reaches an HTTP client is an *AppError, which carries the
// HTTP status, a stable machine-readable kind and a user-facing message, so all
// endpoints share one error envelope.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// StoreUnavailableError represents a failure talking to the document store
	StoreUnavailableError
	// ConfigError represents an error related to application configuration
	ConfigError
	// InvalidCredentialsError is a failed login. Unknown email and wrong password share it.
	InvalidCredentialsError
	// UnauthorizedError represents a missing, malformed or expired bearer token
	UnauthorizedError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents missing or malformed input (e.g. no email on register)
	ValidationError
	// BadRequestError represents a body that could not be decoded at all
	BadRequestError
	// InvalidIdentifierError represents an id that is not in the store's identifier format
	InvalidIdentifierError
	// DuplicateUserError represents a registration for an email that already exists
	DuplicateUserError
	// InternalError represents a generic internal server error
	InternalError
	// MigrationError represents an error while applying the store schema
	MigrationError
)

// AppError is the application's error type. Message is safe to show to
// clients; Err keeps the underlying cause for logs and errors.Is/As.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case StoreUnavailableError:
		return http.StatusServiceUnavailable
	case ConfigError, MigrationError, InternalError:
		return http.StatusInternalServerError
	case InvalidCredentialsError, UnauthorizedError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError, InvalidIdentifierError:
		return http.StatusBadRequest
	case DuplicateUserError:
		// A duplicate registration has always been answered with 400, and
		// existing clients branch on it.
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns the stable, snake_case name of the error type used in responses.
func (e *AppError) Kind() string {
	switch e.Type {
	case StoreUnavailableError:
		return "store_unavailable"
	case ConfigError:
		return "config_error"
	case InvalidCredentialsError:
		return "invalid_credentials"
	case UnauthorizedError:
		return "unauthorized"
	case NotFoundError:
		return "not_found"
	case ValidationError:
		return "invalid_input"
	case BadRequestError:
		return "bad_request"
	case InvalidIdentifierError:
		return "invalid_identifier"
	case DuplicateUserError:
		return "duplicate_user"
	case MigrationError:
		return "migration_error"
	case InternalError:
		return "internal_error"
	default:
		return "unknown_error"
	}
}

// NewAppError creates a new AppError. This is a generic constructor.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewStoreUnavailableError creates a new StoreUnavailableError
func NewStoreUnavailableError(message string, underlyingError error) *AppError {
	return NewAppError(StoreUnavailableError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewInvalidCredentialsError creates a new InvalidCredentialsError
func NewInvalidCredentialsError(message string, underlyingError error) *AppError {
	return NewAppError(InvalidCredentialsError, message, underlyingError)
}

// NewUnauthorizedError creates a new UnauthorizedError
func NewUnauthorizedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthorizedError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInvalidIdentifierError creates a new InvalidIdentifierError
func NewInvalidIdentifierError(message string, underlyingError error) *AppError {
	return NewAppError(InvalidIdentifierError, message, underlyingError)
}

// NewDuplicateUserError creates a new DuplicateUserError
func NewDuplicateUserError(message string, underlyingError error) *AppError {
	return NewAppError(DuplicateUserError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// ErrorResponse is the error envelope returned to API clients.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Kind    string `json:"kind" example:"invalid_identifier"`
	Message string `json:"message" example:"A description of the error"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing Message is included, never the underlying Err.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Success: false, Kind: e.Kind(), Message: e.Message}
}

// FromError finds the first *AppError in err's chain.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is reports whether any *AppError in err's chain has the given type.
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool { return Is(err, NotFoundError) }

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool { return Is(err, ValidationError) }

// IsDuplicateUser checks if an error is a DuplicateUser error
func IsDuplicateUser(err error) bool { return Is(err, DuplicateUserError) }

// IsInvalidCredentials checks if an error is an InvalidCredentials error
func IsInvalidCredentials(err error) bool { return Is(err, InvalidCredentialsError) }

// IsInvalidIdentifier checks if an error is an InvalidIdentifier error
func IsInvalidIdentifier(err error) bool { return Is(err, InvalidIdentifierError) }
