package subscription_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

var fixedNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func newPolicy(t *testing.T, opts ...subscription.Option) *subscription.Policy {
	t.Helper()
	opts = append([]subscription.Option{
		subscription.WithClock(func() time.Time { return fixedNow }),
		subscription.WithLocation(time.UTC),
	}, opts...)
	p, err := subscription.NewPolicy(context.Background(), subscription.DefaultSource(), opts...)
	require.NoError(t, err)
	return p
}

func userWithTier(tier subscription.TierID) *subscription.User {
	return &subscription.User{
		ID:    "u1",
		Email: "reader@example.com",
		Subscription: &subscription.Subscription{
			Tier:             tier,
			Status:           subscription.StatusActive,
			CurrentPeriodEnd: fixedNow.AddDate(0, 1, 0),
		},
	}
}

type failingSource struct{}

func (failingSource) Load(context.Context) (map[subscription.TierID]subscription.Tier, error) {
	return nil, errors.New("boom")
}

func TestNewPolicy(t *testing.T) {
	t.Parallel()

	t.Run("default catalog", func(t *testing.T) {
		t.Parallel()
		p, err := subscription.NewPolicy(context.Background(), subscription.DefaultSource())
		require.NoError(t, err)
		require.NotNil(t, p)
	})

	t.Run("source error", func(t *testing.T) {
		t.Parallel()
		_, err := subscription.NewPolicy(context.Background(), failingSource{})
		require.Error(t, err)
		assert.ErrorIs(t, err, subscription.ErrFailedToLoadTiers)
	})

	t.Run("nil source", func(t *testing.T) {
		t.Parallel()
		_, err := subscription.NewPolicy(context.Background(), nil)
		assert.ErrorIs(t, err, subscription.ErrFailedToLoadTiers)
	})

	t.Run("missing free tier", func(t *testing.T) {
		t.Parallel()
		tiers := subscription.DefaultTiers()
		delete(tiers, subscription.TierFree)
		_, err := subscription.NewPolicy(context.Background(), subscription.NewInMemSource(tiers))
		assert.ErrorIs(t, err, subscription.ErrInvalidTierConfig)
	})

	t.Run("mismatched tier id", func(t *testing.T) {
		t.Parallel()
		tiers := subscription.DefaultTiers()
		pro := tiers[subscription.TierPro]
		pro.ID = subscription.TierPremium
		tiers[subscription.TierPro] = pro
		_, err := subscription.NewPolicy(context.Background(), subscription.NewInMemSource(tiers))
		assert.ErrorIs(t, err, subscription.ErrInvalidTierConfig)
	})

	t.Run("limit below sentinel", func(t *testing.T) {
		t.Parallel()
		tiers := subscription.DefaultTiers()
		free := tiers[subscription.TierFree]
		free.Limits[subscription.UsageSearches] = -2
		_, err := subscription.NewPolicy(context.Background(), subscription.NewInMemSource(tiers))
		assert.ErrorIs(t, err, subscription.ErrInvalidTierConfig)
	})

	t.Run("options panic on nil", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { subscription.WithClock(nil) })
		assert.Panics(t, func() { subscription.WithLocation(nil) })
	})
}

func TestPolicy_EffectiveTier(t *testing.T) {
	t.Parallel()
	p := newPolicy(t)

	assert.Equal(t, subscription.TierFree, p.EffectiveTier(nil))
	assert.Equal(t, subscription.TierFree, p.EffectiveTier(&subscription.User{ID: "u", Email: "e"}))
	assert.Equal(t, subscription.TierPro, p.EffectiveTier(userWithTier(subscription.TierPro)))
	assert.Equal(t, subscription.TierID("gold"), p.EffectiveTier(userWithTier("gold")))
}

func TestPolicy_HasAccess(t *testing.T) {
	t.Parallel()
	p := newPolicy(t)

	t.Run("anonymous visitor", func(t *testing.T) {
		t.Parallel()
		assert.False(t, p.HasAccess(nil, subscription.FeaturePremiumContent))
		assert.True(t, p.HasAccess(nil, subscription.FeaturePublicPosts))
		assert.True(t, p.HasAccess(nil, subscription.FeatureAIChat))
	})

	t.Run("pro user", func(t *testing.T) {
		t.Parallel()
		u := userWithTier(subscription.TierPro)
		assert.True(t, p.HasAccess(u, subscription.FeatureProContent))
		assert.True(t, p.HasAccess(u, subscription.FeaturePremiumContent))
		assert.True(t, p.HasAccess(u, subscription.FeatureDownloadAccess))
		assert.False(t, p.HasAccess(u, subscription.FeatureSourceCode))
		assert.False(t, p.HasAccess(u, subscription.FeatureMentoring))
	})

	t.Run("premium user", func(t *testing.T) {
		t.Parallel()
		u := userWithTier(subscription.TierPremium)
		for _, f := range subscription.AllFeatures() {
			assert.True(t, p.HasAccess(u, f), f.String())
		}
	})

	t.Run("unknown feature denies for every tier", func(t *testing.T) {
		t.Parallel()
		unknown := subscription.ParseFeature("Time travel")
		assert.Equal(t, subscription.FeatureUnknown, unknown)
		assert.False(t, p.HasAccess(nil, unknown))
		for _, tier := range subscription.Tiers {
			assert.False(t, p.HasAccess(userWithTier(tier), unknown), tier)
		}
	})

	t.Run("unknown tier denies", func(t *testing.T) {
		t.Parallel()
		assert.False(t, p.HasAccess(userWithTier("gold"), subscription.FeaturePublicPosts))
	})

	t.Run("status does not affect access", func(t *testing.T) {
		t.Parallel()
		u := userWithTier(subscription.TierPro)
		u.Subscription.Status = subscription.StatusCanceled
		assert.True(t, p.HasAccess(u, subscription.FeatureProContent))
	})
}

func TestPolicy_CanUseFeature(t *testing.T) {
	t.Parallel()
	p := newPolicy(t)

	t.Run("anonymous uses supplied count", func(t *testing.T) {
		t.Parallel()
		d := p.CanUseFeature(nil, subscription.UsageAIMessages, 3)
		assert.True(t, d.Allowed)
		require.NotNil(t, d.Limit)
		require.NotNil(t, d.Remaining)
		assert.Equal(t, int64(5), *d.Limit)
		assert.Equal(t, int64(2), *d.Remaining)
	})

	t.Run("anonymous at quota", func(t *testing.T) {
		t.Parallel()
		d := p.CanUseFeature(nil, subscription.UsageSearches, 12)
		assert.False(t, d.Allowed)
		assert.Equal(t, int64(10), *d.Limit)
		assert.Equal(t, int64(0), *d.Remaining)
	})

	t.Run("free user at quota", func(t *testing.T) {
		t.Parallel()
		u := userWithTier(subscription.TierFree)
		u.Usage = &subscription.Usage{AIMessages: 5, LastReset: fixedNow.Add(-time.Hour)}
		d := p.CanUseFeature(u, subscription.UsageAIMessages, 5)
		assert.False(t, d.Allowed)
		assert.Equal(t, int64(5), *d.Limit)
		assert.Equal(t, int64(0), *d.Remaining)
	})

	t.Run("authenticated ignores supplied count", func(t *testing.T) {
		t.Parallel()
		u := userWithTier(subscription.TierFree)
		u.Usage = &subscription.Usage{AIMessages: 1, LastReset: fixedNow}
		d := p.CanUseFeature(u, subscription.UsageAIMessages, 100)
		assert.True(t, d.Allowed)
		assert.Equal(t, int64(4), *d.Remaining)
	})

	t.Run("stale reset date counts as zero", func(t *testing.T) {
		t.Parallel()
		stale := userWithTier(subscription.TierFree)
		stale.Usage = &subscription.Usage{AIMessages: 50, Searches: 50, LastReset: fixedNow.AddDate(0, 0, -1)}
		fresh := userWithTier(subscription.TierFree)
		fresh.Usage = &subscription.Usage{LastReset: fixedNow}

		for _, ut := range subscription.UsageTypes {
			assert.Equal(t, p.CanUseFeature(fresh, ut, 0), p.CanUseFeature(stale, ut, 0), ut)
		}
	})

	t.Run("calendar day not rolling window", func(t *testing.T) {
		t.Parallel()
		lateEvening := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)
		nextMorning := time.Date(2025, 3, 15, 0, 15, 0, 0, time.UTC)
		pol := newPolicy(t, subscription.WithClock(func() time.Time { return nextMorning }))

		u := userWithTier(subscription.TierFree)
		u.Usage = &subscription.Usage{AIMessages: 5, LastReset: lateEvening}
		d := pol.CanUseFeature(u, subscription.UsageAIMessages, 0)
		assert.True(t, d.Allowed)
		assert.Equal(t, int64(5), *d.Remaining)
	})

	t.Run("viewer time zone decides the day", func(t *testing.T) {
		t.Parallel()
		tokyo := time.FixedZone("JST", 9*60*60)
		// 2025-03-14 20:00 UTC is already 2025-03-15 in Tokyo.
		now := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
		reset := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
		u := userWithTier(subscription.TierFree)
		u.Usage = &subscription.Usage{Searches: 10, LastReset: reset}

		utc := newPolicy(t, subscription.WithClock(func() time.Time { return now }))
		assert.False(t, utc.CanUseFeature(u, subscription.UsageSearches, 0).Allowed)
		assert.True(t, utc.InLocation(tokyo).CanUseFeature(u, subscription.UsageSearches, 0).Allowed)
	})

	t.Run("unlimited ignores usage", func(t *testing.T) {
		t.Parallel()
		for _, tier := range []subscription.TierID{subscription.TierPro, subscription.TierPremium} {
			u := userWithTier(tier)
			u.Usage = &subscription.Usage{AIMessages: 1 << 30, LastReset: fixedNow}
			for _, n := range []int64{0, 5, 1 << 40} {
				d := p.CanUseFeature(u, subscription.UsageAIMessages, n)
				assert.True(t, d.Allowed)
				assert.True(t, d.IsUnlimited())
				assert.Nil(t, d.Limit)
				assert.Nil(t, d.Remaining)
			}
		}
	})

	t.Run("zero quota always denies", func(t *testing.T) {
		t.Parallel()
		d := p.CanUseFeature(nil, subscription.UsageDownloads, 0)
		assert.False(t, d.Allowed)
		assert.Equal(t, int64(0), *d.Limit)
	})

	t.Run("negative count clamps to zero", func(t *testing.T) {
		t.Parallel()
		d := p.CanUseFeature(nil, subscription.UsageAIMessages, -3)
		assert.Equal(t, int64(5), *d.Remaining)
	})

	t.Run("unknown usage type denies", func(t *testing.T) {
		t.Parallel()
		d := p.CanUseFeature(userWithTier(subscription.TierPremium), subscription.UsageType("uploads"), 0)
		assert.False(t, d.Allowed)
	})

	t.Run("unknown tier denies", func(t *testing.T) {
		t.Parallel()
		d := p.CanUseFeature(userWithTier("gold"), subscription.UsageAIMessages, 0)
		assert.False(t, d.Allowed)
	})
}

func TestPolicy_IsSubscribed(t *testing.T) {
	t.Parallel()
	p := newPolicy(t)

	assert.False(t, p.IsSubscribed(nil))
	assert.False(t, p.IsSubscribed(userWithTier(subscription.TierFree)))
	assert.True(t, p.IsSubscribed(userWithTier(subscription.TierPro)))

	canceled := userWithTier(subscription.TierPremium)
	canceled.Subscription.Status = subscription.StatusCanceled
	assert.False(t, p.IsSubscribed(canceled))
}

func TestPolicy_Catalog(t *testing.T) {
	t.Parallel()
	p := newPolicy(t)

	catalog := p.Catalog()
	require.Len(t, catalog, 3)
	assert.Equal(t, subscription.TierFree, catalog[0].ID)
	assert.Equal(t, subscription.TierPro, catalog[1].ID)
	assert.Equal(t, subscription.TierPremium, catalog[2].ID)
	assert.True(t, catalog[1].Popular)
	assert.Equal(t, int64(1900), catalog[2].Price.Amount)

	// Mutating a returned tier must not leak into the policy.
	catalog[0].Limits[subscription.UsageAIMessages] = 1000
	tier, err := p.Tier(subscription.TierFree)
	require.NoError(t, err)
	assert.Equal(t, int64(5), tier.Limits[subscription.UsageAIMessages])

	_, err = p.Tier("gold")
	assert.ErrorIs(t, err, subscription.ErrTierNotFound)
}
