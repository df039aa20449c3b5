package subscription

// TierID identifies a subscription tier.
type TierID string

const (
	TierFree    TierID = "free"
	TierPro     TierID = "pro"
	TierPremium TierID = "premium"
)

// Tiers lists every known tier in ascending rank order.
var Tiers = []TierID{TierFree, TierPro, TierPremium}

// Valid reports whether id names a known tier.
func (id TierID) Valid() bool {
	switch id {
	case TierFree, TierPro, TierPremium:
		return true
	}
	return false
}

// Rank returns the position of the tier in the upgrade ladder.
// Unknown tiers rank below free.
func (id TierID) Rank() int {
	switch id {
	case TierFree:
		return 0
	case TierPro:
		return 1
	case TierPremium:
		return 2
	}
	return -1
}

func (id TierID) String() string { return string(id) }

// Unlimited represents a usage type with no daily quota.
const Unlimited int64 = -1

// Money represents a monetary amount in the smallest currency unit.
// For example, $9.00 USD would be Amount: 900, Currency: "USD".
type Money struct {
	Amount   int64  `json:"amount"`   // cents for USD
	Currency string `json:"currency"` // ISO 4217
}

// Major returns the amount in whole currency units.
func (m Money) Major() float64 {
	return float64(m.Amount) / 100
}

// BillingInterval represents the billing frequency of a tier.
type BillingInterval string

const (
	BillingIntervalMonthly BillingInterval = "month"
	BillingIntervalAnnual  BillingInterval = "year"
)

// Status is the lifecycle state of a user's subscription.
type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusPastDue  Status = "past_due"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCanceled, StatusPastDue:
		return true
	}
	return false
}

// UsageType is a countable, quota-limited action.
type UsageType string

const (
	UsageAIMessages UsageType = "aiMessages"
	UsageSearches   UsageType = "searches"
	UsageDownloads  UsageType = "downloads"
)

// UsageTypes lists every known usage type.
var UsageTypes = []UsageType{UsageAIMessages, UsageSearches, UsageDownloads}

// ParseUsageType maps an external identifier onto a known usage type.
func ParseUsageType(s string) (UsageType, bool) {
	switch UsageType(s) {
	case UsageAIMessages, UsageSearches, UsageDownloads:
		return UsageType(s), true
	}
	return "", false
}

func (u UsageType) String() string { return string(u) }
