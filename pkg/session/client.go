package session

import (
	"context"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// Client talks to the remote account endpoints.
//
// Implementations return ErrUnauthenticated for a 401 from any call that
// requires a signed-in user.
type Client interface {
	Me(ctx context.Context) (*subscription.User, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	CreateSubscription(ctx context.Context, tier subscription.TierID) (checkoutURL string, err error)
	CancelSubscription(ctx context.Context) error
	IncrementUsage(ctx context.Context, t subscription.UsageType) (subscription.Usage, error)
}
