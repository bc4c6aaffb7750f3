package session

import "errors"

// ValidationError reports why a registration was rejected. The package-level values are
// the only instances, so errors.Is matches them by identity.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrEmptyName        = &ValidationError{Field: "name", Message: "name is required"}
	ErrInvalidAge       = &ValidationError{Field: "age", Message: "age must be a positive number"}
	ErrInvalidEmail     = &ValidationError{Field: "email", Message: "email is not valid"}
	ErrEmptyAccount     = &ValidationError{Field: "account", Message: "account is required"}
	ErrWeakPassword     = &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	ErrPasswordMismatch = &ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	ErrAccountTaken     = &ValidationError{Field: "account", Message: "account already exists"}
)

var (
	// ErrInvalidCredentials is returned when account/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotLoggedIn is returned by operations that need a current account.
	ErrNotLoggedIn = errors.New("not logged in")
)
