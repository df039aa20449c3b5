package backend

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// BillingPeriod is the length of a simulated paid period.
const BillingPeriod = 30 * 24 * time.Hour

type account struct {
	id           string
	email        string
	name         string
	passwordHash []byte
	sub          *subscription.Subscription
	usage        subscription.Usage
}

// Accounts is an in-memory account registry.
type Accounts struct {
	mu      sync.RWMutex
	byID    map[string]*account
	byEmail map[string]string
	nextID  int
	cost    int
	now     func() time.Time
}

// AccountsOption configures Accounts.
type AccountsOption func(*Accounts)

// WithBcryptCost sets the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) AccountsOption {
	return func(a *Accounts) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			a.cost = cost
		}
	}
}

// WithAccountsClock overrides the clock used for renewals and expiry.
func WithAccountsClock(now func() time.Time) AccountsOption {
	return func(a *Accounts) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAccounts creates an empty registry.
func NewAccounts(opts ...AccountsOption) *Accounts {
	a := &Accounts{
		byID:    make(map[string]*account),
		byEmail: make(map[string]string),
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account on tier and returns its id.
// A free tier account carries no subscription record.
func (a *Accounts) Register(email, name, password string, tier subscription.TierID) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrEmptyCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", errors.Join(ErrHashPassword, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.byEmail[email]; ok {
		return "", ErrAccountExists
	}
	a.nextID++
	acc := &account{
		id:           strconv.Itoa(a.nextID),
		email:        email,
		name:         name,
		passwordHash: hash,
	}
	if tier.Valid() && tier != subscription.TierFree {
		acc.sub = &subscription.Subscription{
			Tier:             tier,
			Status:           subscription.StatusActive,
			CurrentPeriodEnd: a.now().Add(BillingPeriod).UTC(),
		}
	}
	a.byID[acc.id] = acc
	a.byEmail[email] = acc.id
	return acc.id, nil
}

// Authenticate checks credentials and returns the account id.
func (a *Accounts) Authenticate(email, password string) (string, error) {
	a.mu.RLock()
	id, ok := a.byEmail[normalizeEmail(email)]
	var hash []byte
	if ok {
		hash = a.byID[id].passwordHash
	}
	a.mu.RUnlock()

	if !ok {
		return "", ErrAccountNotFound
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", errors.Join(ErrInvalidPassword, err)
	}
	return id, nil
}

// User returns a snapshot of the account as the policy sees it.
// Canceled plans past their period end fall back to free here.
func (a *Accounts) User(id string) (*subscription.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	acc, ok := a.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	a.expire(acc)
	return acc.snapshot(), nil
}

func (a *Accounts) expire(acc *account) {
	if acc.sub == nil || acc.sub.Status != subscription.StatusCanceled {
		return
	}
	if a.now().Before(acc.sub.CurrentPeriodEnd) {
		return
	}
	acc.sub = &subscription.Subscription{
		Tier:   subscription.TierFree,
		Status: subscription.StatusCanceled,
	}
}

func (acc *account) snapshot() *subscription.User {
	u := &subscription.User{ID: acc.id, Email: acc.email, Name: acc.name}
	if acc.sub != nil {
		sub := *acc.sub
		u.Subscription = &sub
	}
	usage := acc.usage
	u.Usage = &usage
	return u
}

// Activate puts the account on tier for a fresh billing period.
func (a *Accounts) Activate(id string, tier subscription.TierID) error {
	if !tier.Valid() || tier == subscription.TierFree {
		return ErrTierNotPurchasable
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	acc, ok := a.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	acc.sub = &subscription.Subscription{
		Tier:             tier,
		Status:           subscription.StatusActive,
		CurrentPeriodEnd: a.now().Add(BillingPeriod).UTC(),
	}
	return nil
}

// Cancel marks the plan canceled. The tier stays until the period ends.
// Canceling without a paid plan is a no-op.
func (a *Accounts) Cancel(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	acc, ok := a.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	if acc.sub == nil || acc.sub.Tier == subscription.TierFree {
		return nil
	}
	sub := *acc.sub
	sub.Status = subscription.StatusCanceled
	acc.sub = &sub
	return nil
}

// Increment adds one use of t for today, resetting every counter on the
// first call of a new calendar day. It refuses once policy denies t.
func (a *Accounts) Increment(id string, t subscription.UsageType, policy *subscription.Policy) (subscription.Usage, error) {
	if _, ok := subscription.ParseUsageType(string(t)); !ok {
		return subscription.Usage{}, subscription.ErrUnknownUsageType
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	acc, ok := a.byID[id]
	if !ok {
		return subscription.Usage{}, ErrAccountNotFound
	}
	a.expire(acc)

	now := policy.Today()
	if !policy.SameDay(acc.usage.LastReset, now) {
		acc.usage = subscription.Usage{LastReset: now.UTC()}
	}

	u := acc.snapshot()
	if d := policy.CanUseFeature(u, t, acc.usage.Count(t)); !d.Allowed {
		return acc.usage, ErrLimitReached
	}
	acc.usage = acc.usage.With(t, acc.usage.Count(t)+1)
	return acc.usage, nil
}
