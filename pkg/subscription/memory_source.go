package subscription

import (
	"context"
	"sync"
)

// Source defines how tiers are loaded into the policy.
type Source interface {
	Load(ctx context.Context) (map[TierID]Tier, error)
}

// inMemSource implements the Source interface using an in-memory tier map.
type inMemSource struct {
	mu    sync.RWMutex
	tiers map[TierID]Tier
}

// NewInMemSource returns an in-memory Source with a deep copy of the given tiers.
func NewInMemSource(tiers map[TierID]Tier) Source {
	tiersCopy := make(map[TierID]Tier, len(tiers))
	for id, tier := range tiers {
		tiersCopy[id] = tier.clone()
	}
	return &inMemSource{tiers: tiersCopy}
}

// DefaultSource returns a Source serving DefaultTiers.
func DefaultSource() Source {
	return NewInMemSource(DefaultTiers())
}

// Load returns a copy of all tiers.
func (s *inMemSource) Load(_ context.Context) (map[TierID]Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tiersCopy := make(map[TierID]Tier, len(s.tiers))
	for id, tier := range s.tiers {
		tiersCopy[id] = tier.clone()
	}
	return tiersCopy, nil
}
