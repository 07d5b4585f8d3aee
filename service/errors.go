package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already taken")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// EmailRejectedError reports why an address failed deliverability checks.
type EmailRejectedError struct {
	Reason string
}

func (e *EmailRejectedError) Error() string {
	return e.Reason
}
