package session

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/zenblog/pkg/logger"
	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// Navigator sends the viewer to an external URL, such as a checkout page.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, url string) error

func (f NavigatorFunc) Navigate(ctx context.Context, url string) error { return f(ctx, url) }

// Snapshot is an immutable view of the session. Stores replace snapshots
// whole, so a captured Snapshot never changes.
type Snapshot struct {
	User    *subscription.User
	State   AuthState
	Loading bool
}

// Store owns the current user of one viewer. Reads return the latest
// snapshot; writes happen only through the action methods and replace the
// snapshot atomically. When two refreshes race, the last to finish wins.
type Store struct {
	client    Client
	policy    *subscription.Policy
	navigator Navigator
	logger    *slog.Logger
	current   atomic.Pointer[Snapshot]
}

// Option configures a Store.
type Option func(*Store)

// WithNavigator sets where Subscribe sends the checkout URL.
func WithNavigator(n Navigator) Option {
	return func(s *Store) { s.navigator = n }
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store in the unknown, loading state.
// It panics when client or policy is nil.
func NewStore(client Client, policy *subscription.Policy, opts ...Option) *Store {
	if client == nil || policy == nil {
		panic("session: client and policy are required")
	}
	s := &Store{
		client: client,
		policy: policy,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&Snapshot{State: StateUnknown, Loading: true})
	return s
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot { return *s.current.Load() }

func (s *Store) User() *subscription.User { return s.current.Load().User }
func (s *Store) State() AuthState         { return s.current.Load().State }
func (s *Store) Loading() bool            { return s.current.Load().Loading }

// HasAccess reports whether the current user may use f.
func (s *Store) HasAccess(f subscription.Feature) bool {
	return s.policy.HasAccess(s.User(), f)
}

// CanUseFeature checks the current user's quota for t. currentUsage is
// the caller-held counter used for anonymous viewers.
func (s *Store) CanUseFeature(t subscription.UsageType, currentUsage int64) subscription.UsageDecision {
	return s.policy.CanUseFeature(s.User(), t, currentUsage)
}

// IsSubscribed reports whether the current user has an active paid plan.
func (s *Store) IsSubscribed() bool {
	return s.policy.IsSubscribed(s.User())
}

// Tiers returns the catalog shown on the pricing page.
func (s *Store) Tiers() []subscription.Tier {
	return s.policy.Catalog()
}

// CheckSession asks the server who the viewer is. A 401 resolves to no
// user with a nil error. Any other failure also resolves to no user but
// is returned so callers can log it.
func (s *Store) CheckSession(ctx context.Context) (*subscription.User, error) {
	s.update(ctx, func(sn Snapshot) Snapshot {
		sn.Loading = true
		return sn
	})

	u, err := s.client.Me(ctx)
	switch {
	case err == nil:
		s.apply(ctx, EventSessionFound, u)
		return u, nil
	case errors.Is(err, ErrUnauthenticated):
		s.apply(ctx, EventSessionMissing, nil)
		return nil, nil
	default:
		s.logger.WarnContext(ctx, "session check failed", logger.Error(err))
		s.apply(ctx, EventSessionMissing, nil)
		return nil, err
	}
}

// Login posts credentials and then runs CheckSession. It reports false
// only when the server rejects the login or the login call fails; the
// outcome of the refresh is left to CheckSession.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	if err := s.client.Login(ctx, email, password); err != nil {
		s.logger.InfoContext(ctx, "login failed", logger.Error(err))
		return false
	}
	if _, err := s.CheckSession(ctx); err != nil {
		s.logger.WarnContext(ctx, "session check after login failed", logger.Error(err))
	}
	return true
}

// Logout is best effort: the local user is cleared even when the remote
// call fails.
func (s *Store) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.logger.WarnContext(ctx, "remote logout failed", logger.Error(err))
	}
	s.apply(ctx, EventLogout, nil)
}

// Subscribe starts checkout for tier and hands the checkout URL to the
// navigator. The local tier is not changed; it changes once checkout
// completes and a later CheckSession reflects it.
func (s *Store) Subscribe(ctx context.Context, tier subscription.TierID) (string, error) {
	if !tier.Valid() {
		return "", errors.Join(ErrSubscribeFailed, ErrUnknownTier)
	}
	url, err := s.client.CreateSubscription(ctx, tier)
	if err != nil {
		s.dropOnUnauthorized(ctx, err)
		return "", err
	}
	if s.navigator != nil {
		if err := s.navigator.Navigate(ctx, url); err != nil {
			return url, errors.Join(ErrSubscribeFailed, err)
		}
	}
	return url, nil
}

// CancelSubscription cancels the plan and refreshes the session.
func (s *Store) CancelSubscription(ctx context.Context) error {
	if err := s.client.CancelSubscription(ctx); err != nil {
		s.dropOnUnauthorized(ctx, err)
		return err
	}
	_, err := s.CheckSession(ctx)
	return err
}

// IncrementUsage records one use of t on the server and adopts the
// server's counters. Anonymous viewers are a no-op.
func (s *Store) IncrementUsage(ctx context.Context, t subscription.UsageType) error {
	u := s.User()
	if u == nil {
		return nil
	}
	usage, err := s.client.IncrementUsage(ctx, t)
	if err != nil {
		s.dropOnUnauthorized(ctx, err)
		s.logger.WarnContext(ctx, "usage increment failed", logger.UsageType(t.String()), logger.Error(err))
		return err
	}
	s.update(ctx, func(sn Snapshot) Snapshot {
		if sn.User != nil {
			sn.User = sn.User.WithUsage(usage)
		}
		return sn
	})
	return nil
}

func (s *Store) dropOnUnauthorized(ctx context.Context, err error) {
	if errors.Is(err, ErrUnauthenticated) {
		s.apply(ctx, EventUnauthorized, nil)
	}
}

// apply fires event and stores u as the new user. Events without a
// transition from the current state leave the snapshot unchanged.
func (s *Store) apply(ctx context.Context, event AuthEvent, u *subscription.User) {
	s.update(ctx, func(sn Snapshot) Snapshot {
		to, err := Transition(sn.State, event)
		if err != nil {
			s.logger.DebugContext(ctx, "auth transition ignored", logger.Error(err))
			sn.Loading = false
			return sn
		}
		return Snapshot{User: u, State: to}
	})
}

func (s *Store) update(_ context.Context, fn func(Snapshot) Snapshot) {
	for {
		old := s.current.Load()
		next := fn(*old)
		if s.current.CompareAndSwap(old, &next) {
			return
		}
	}
}
