package subscription

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

// UsageDecision is the outcome of a quota check.
// Limit and Remaining are nil when the usage type is unlimited for the tier.
type UsageDecision struct {
	Allowed   bool   `json:"allowed"`
	Limit     *int64 `json:"limit,omitempty"`
	Remaining *int64 `json:"remaining,omitempty"`
}

// IsUnlimited reports whether the decision carries no quota.
func (d UsageDecision) IsUnlimited() bool {
	return d.Allowed && d.Limit == nil
}

// Policy combines the tier catalog with a user to produce access decisions.
// It holds no mutable state and is safe for concurrent use.
type Policy struct {
	// Treated as immutable after construction.
	tiers  map[TierID]Tier
	access map[TierID]map[Feature]bool
	now    func() time.Time
	loc    *time.Location
}

// NewPolicy loads tiers from src and builds a Policy.
func NewPolicy(ctx context.Context, src Source, opts ...Option) (*Policy, error) {
	if src == nil {
		return nil, errors.Join(ErrFailedToLoadTiers, errors.New("nil source"))
	}
	tiers, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadTiers, err)
	}
	if err := validateTiers(tiers); err != nil {
		return nil, err
	}

	p := &Policy{
		tiers:  tiers,
		access: make(map[TierID]map[Feature]bool, len(tiers)),
		now:    time.Now,
		loc:    time.Local,
	}
	for id, tier := range tiers {
		set := make(map[Feature]bool, len(tier.Features))
		for _, f := range tier.Features {
			set[f] = true
		}
		p.access[id] = set
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MustNewPolicy is like NewPolicy but panics on error.
func MustNewPolicy(ctx context.Context, src Source, opts ...Option) *Policy {
	p, err := NewPolicy(ctx, src, opts...)
	if err != nil {
		panic(fmt.Sprintf("subscription: %v", err))
	}
	return p
}

// InLocation returns a copy of the policy evaluating calendar days in loc.
func (p *Policy) InLocation(loc *time.Location) *Policy {
	if loc == nil {
		return p
	}
	next := *p
	next.loc = loc
	return &next
}

func validateTiers(tiers map[TierID]Tier) error {
	if len(tiers) == 0 {
		return errors.Join(ErrInvalidTierConfig, errors.New("no tiers defined"))
	}
	if _, ok := tiers[TierFree]; !ok {
		return errors.Join(ErrInvalidTierConfig, errors.New("free tier is required"))
	}
	for id, tier := range tiers {
		if tier.ID != id {
			return errors.Join(ErrInvalidTierConfig, fmt.Errorf("tier %q registered under %q", tier.ID, id))
		}
		if !id.Valid() {
			return errors.Join(ErrInvalidTierConfig, fmt.Errorf("unknown tier id %q", id))
		}
		for u, limit := range tier.Limits {
			if _, ok := ParseUsageType(string(u)); !ok {
				return errors.Join(ErrInvalidTierConfig, fmt.Errorf("tier %q: unknown usage type %q", id, u))
			}
			if limit < Unlimited {
				return errors.Join(ErrInvalidTierConfig, fmt.Errorf("tier %q: limit for %s is %d", id, u, limit))
			}
		}
	}
	return nil
}

// EffectiveTier resolves the tier used for every decision about u.
// Anonymous users and users without a subscription fall back to free.
// An unrecognised tier id is returned unchanged so lookups against it deny.
func (p *Policy) EffectiveTier(u *User) TierID {
	if u == nil || u.Subscription == nil || u.Subscription.Tier == "" {
		return TierFree
	}
	return u.Subscription.Tier
}

// HasAccess reports whether the effective tier of u grants f.
// Unknown features and unknown tiers deny.
func (p *Policy) HasAccess(u *User, f Feature) bool {
	return p.access[p.EffectiveTier(u)][f]
}

// CanUseFeature checks the daily quota of usage type t.
//
// For anonymous users currentUsage is the caller-tracked count. For
// authenticated users the stored counters are used when they were last reset
// today in the policy's location, otherwise usage is zero; currentUsage is ignored.
func (p *Policy) CanUseFeature(u *User, t UsageType, currentUsage int64) UsageDecision {
	tier, ok := p.tiers[p.EffectiveTier(u)]
	if !ok {
		return denied()
	}
	limit, ok := tier.Limit(t)
	if !ok {
		return denied()
	}
	if limit == Unlimited {
		return UsageDecision{Allowed: true}
	}

	used := max(currentUsage, 0)
	if u != nil {
		used = p.DailyUsage(u, t)
	}

	remaining := max(limit-used, 0)
	return UsageDecision{
		Allowed:   used < limit,
		Limit:     &limit,
		Remaining: &remaining,
	}
}

// DailyUsage returns today's stored count of t for u.
// Counters reset at the first calendar day change after LastReset.
func (p *Policy) DailyUsage(u *User, t UsageType) int64 {
	if u == nil || u.Usage == nil {
		return 0
	}
	if !p.SameDay(u.Usage.LastReset, p.now()) {
		return 0
	}
	return u.Usage.Count(t)
}

// SameDay reports whether a and b fall on the same calendar date in the policy's location.
func (p *Policy) SameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.In(p.loc).Date()
	by, bm, bd := b.In(p.loc).Date()
	return ay == by && am == bm && ad == bd
}

// Today returns the current time in the policy's location.
func (p *Policy) Today() time.Time {
	return p.now().In(p.loc)
}

// IsSubscribed reports whether u holds an active paid subscription.
func (p *Policy) IsSubscribed(u *User) bool {
	if u == nil || u.Subscription == nil {
		return false
	}
	return u.Subscription.Status == StatusActive && u.Subscription.Tier != TierFree
}

// Tier returns a copy of the tier with the given id.
func (p *Policy) Tier(id TierID) (Tier, error) {
	tier, ok := p.tiers[id]
	if !ok {
		return Tier{}, ErrTierNotFound
	}
	return tier.clone(), nil
}

// Catalog returns all tiers ordered by rank.
func (p *Policy) Catalog() []Tier {
	out := make([]Tier, 0, len(p.tiers))
	for _, id := range slices.SortedFunc(maps.Keys(p.tiers), func(a, b TierID) int {
		return cmp.Compare(a.Rank(), b.Rank())
	}) {
		out = append(out, p.tiers[id].clone())
	}
	return out
}

func denied() UsageDecision {
	limit, remaining := int64(0), int64(0)
	return UsageDecision{Allowed: false, Limit: &limit, Remaining: &remaining}
}
