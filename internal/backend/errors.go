package backend

import "errors"

var (
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrEmptyCredentials   = errors.New("email and password are required")
	ErrHashPassword       = errors.New("failed to hash password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrCheckoutNotFound   = errors.New("checkout not found")
	ErrTierNotPurchasable = errors.New("tier cannot be purchased")
	ErrLimitReached       = errors.New("daily limit reached")
)
