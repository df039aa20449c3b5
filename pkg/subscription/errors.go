package subscription

import "errors"

var (
	ErrFailedToLoadTiers  = errors.New("failed to load subscription tiers")
	ErrInvalidTierConfig  = errors.New("invalid subscription tier configuration")
	ErrTierNotFound       = errors.New("subscription tier not found")
	ErrNonMonotonicAccess = errors.New("tier access is not monotonic in rank")

	ErrInvalidUserPayload  = errors.New("invalid user payload")
	ErrInvalidUsagePayload = errors.New("invalid usage payload")
	ErrInvalidTimestamp    = errors.New("invalid timestamp")
	ErrUnknownUsageType    = errors.New("unknown usage type")
)
