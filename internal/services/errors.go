package services

import "errors"

// Client input errors of the registration workflow
var (
	ErrMissingFields  = errors.New("missing required fields")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUnknownRole    = errors.New("invalid role")
)

// ErrRegistrationFailed matches every RegistrationError
var ErrRegistrationFailed = errors.New("registration failed")

// Lookup and profile errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("additionalInfo must be valid JSON")
)

// RegistrationError wraps an unexpected failure while registering a user
type RegistrationError struct {
	Err error
}

func (e *RegistrationError) Error() string {
	return "registration failed: " + e.Err.Error()
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrRegistrationFailed) match
func (e *RegistrationError) Is(target error) bool {
	return target == ErrRegistrationFailed
}
