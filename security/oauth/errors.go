package oauth

import "errors"

var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrProviderDisabled    = errors.New("provider disabled")
	ErrMissingAccessToken  = errors.New("server response missing access_token")
	ErrStateExpired        = errors.New("state expired")
	ErrStateInvalid        = errors.New("state invalid")
)
