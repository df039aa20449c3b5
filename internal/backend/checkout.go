package backend

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

const checkoutTTL = 30 * time.Minute

type checkout struct {
	accountID string
	tier      subscription.TierID
	expiresAt time.Time
}

// checkouts holds pending simulated payments by id.
type checkouts struct {
	mu      sync.Mutex
	pending map[string]checkout
}

func newCheckouts() *checkouts {
	return &checkouts{pending: make(map[string]checkout)}
}

func (c *checkouts) start(accountID string, tier subscription.TierID, now time.Time) string {
	id := uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, p := range c.pending {
		if now.After(p.expiresAt) {
			delete(c.pending, k)
		}
	}
	c.pending[id] = checkout{accountID: accountID, tier: tier, expiresAt: now.Add(checkoutTTL)}
	return id
}

// complete consumes the checkout. Each id can be completed once.
func (c *checkouts) complete(id string, now time.Time) (checkout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[id]
	if !ok {
		return checkout{}, ErrCheckoutNotFound
	}
	delete(c.pending, id)
	if now.After(p.expiresAt) {
		return checkout{}, ErrCheckoutNotFound
	}
	return p, nil
}
