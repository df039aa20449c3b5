package subscription

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// User is the authenticated account as seen by the policy.
// Values are replaced wholesale on every session change and never mutated in place.
type User struct {
	ID           string
	Email        string
	Name         string // optional
	Subscription *Subscription
	Usage        *Usage
}

// Subscription is a user's paid plan. CurrentPeriodEnd is the renewal timestamp.
type Subscription struct {
	Tier             TierID
	Status           Status
	CurrentPeriodEnd time.Time
}

// Usage holds the server-tracked daily counters of a user.
type Usage struct {
	AIMessages int64
	Searches   int64
	Downloads  int64
	LastReset  time.Time
}

// Count returns the counter for t.
func (u Usage) Count(t UsageType) int64 {
	switch t {
	case UsageAIMessages:
		return u.AIMessages
	case UsageSearches:
		return u.Searches
	case UsageDownloads:
		return u.Downloads
	}
	return 0
}

// With returns a copy of u with the counter for t set to n.
func (u Usage) With(t UsageType, n int64) Usage {
	switch t {
	case UsageAIMessages:
		u.AIMessages = n
	case UsageSearches:
		u.Searches = n
	case UsageDownloads:
		u.Downloads = n
	}
	return u
}

// WithUsage returns a copy of the user carrying usage.
func (u *User) WithUsage(usage Usage) *User {
	if u == nil {
		return nil
	}
	next := *u
	next.Usage = &usage
	return &next
}

// The wire types below are the JSON shape exchanged with the remote endpoints.
// Timestamps travel as RFC 3339 strings and are parsed only here.

type userWire struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Name         string            `json:"name,omitempty"`
	Subscription *subscriptionWire `json:"subscription,omitempty"`
	Usage        *usageWire        `json:"usage,omitempty"`
}

type subscriptionWire struct {
	Tier             string `json:"tier"`
	Status           string `json:"status"`
	CurrentPeriodEnd string `json:"currentPeriodEnd"`
}

type usageWire struct {
	AIMessages int64  `json:"aiMessages"`
	Searches   int64  `json:"searches"`
	Downloads  int64  `json:"downloads"`
	LastReset  string `json:"lastReset"`
}

// DecodeUser parses a user payload.
func DecodeUser(data []byte) (*User, error) {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Join(ErrInvalidUserPayload, err)
	}
	if w.ID == "" || w.Email == "" {
		return nil, errors.Join(ErrInvalidUserPayload, errors.New("id and email are required"))
	}

	u := &User{ID: w.ID, Email: w.Email, Name: w.Name}

	if w.Subscription != nil {
		end, err := parseTimestamp(w.Subscription.CurrentPeriodEnd)
		if err != nil {
			return nil, errors.Join(ErrInvalidUserPayload, fmt.Errorf("subscription.currentPeriodEnd: %w", err))
		}
		u.Subscription = &Subscription{
			Tier:             TierID(w.Subscription.Tier),
			Status:           Status(w.Subscription.Status),
			CurrentPeriodEnd: end,
		}
	}

	if w.Usage != nil {
		usage, err := w.Usage.decode()
		if err != nil {
			return nil, errors.Join(ErrInvalidUserPayload, fmt.Errorf("usage: %w", err))
		}
		u.Usage = &usage
	}

	return u, nil
}

// EncodeUser serialises u into the wire format accepted by DecodeUser.
func EncodeUser(u *User) ([]byte, error) {
	if u == nil {
		return nil, ErrInvalidUserPayload
	}
	w := userWire{ID: u.ID, Email: u.Email, Name: u.Name}
	if u.Subscription != nil {
		w.Subscription = &subscriptionWire{
			Tier:             string(u.Subscription.Tier),
			Status:           string(u.Subscription.Status),
			CurrentPeriodEnd: formatTimestamp(u.Subscription.CurrentPeriodEnd),
		}
	}
	if u.Usage != nil {
		w.Usage = encodeUsage(*u.Usage)
	}
	return json.Marshal(w)
}

// DecodeUsage parses a usage record as returned by the increment endpoint.
func DecodeUsage(data []byte) (Usage, error) {
	var w usageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Usage{}, errors.Join(ErrInvalidUsagePayload, err)
	}
	usage, err := w.decode()
	if err != nil {
		return Usage{}, errors.Join(ErrInvalidUsagePayload, err)
	}
	return usage, nil
}

// EncodeUsage serialises a usage record.
func EncodeUsage(u Usage) ([]byte, error) {
	return json.Marshal(encodeUsage(u))
}

func encodeUsage(u Usage) *usageWire {
	return &usageWire{
		AIMessages: u.AIMessages,
		Searches:   u.Searches,
		Downloads:  u.Downloads,
		LastReset:  formatTimestamp(u.LastReset),
	}
}

func (w usageWire) decode() (Usage, error) {
	if w.AIMessages < 0 || w.Searches < 0 || w.Downloads < 0 {
		return Usage{}, errors.New("counters must not be negative")
	}
	reset, err := parseTimestamp(w.LastReset)
	if err != nil {
		return Usage{}, fmt.Errorf("lastReset: %w", err)
	}
	return Usage{
		AIMessages: w.AIMessages,
		Searches:   w.Searches,
		Downloads:  w.Downloads,
		LastReset:  reset,
	}, nil
}

// parseTimestamp accepts RFC 3339 with or without fractional seconds.
// An empty string is the zero time.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalidTimestamp, err)
	}
	return t, nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
