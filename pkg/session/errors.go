package session

import "errors"

var (
	ErrUnauthenticated    = errors.New("session is not authenticated")
	ErrUnexpectedStatus   = errors.New("unexpected response status")
	ErrTransport          = errors.New("session endpoint unreachable")
	ErrInvalidResponse    = errors.New("invalid response body")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSubscribeFailed    = errors.New("failed to create subscription")
	ErrCancelFailed       = errors.New("failed to cancel subscription")
	ErrUnknownTier        = errors.New("unknown subscription tier")
	ErrInvalidTransition  = errors.New("invalid auth state transition")
)
