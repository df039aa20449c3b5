package subscription_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

func TestPolicy_FeatureGate(t *testing.T) {
	t.Parallel()
	p := newPolicy(t)

	t.Run("granted hides upsell", func(t *testing.T) {
		t.Parallel()
		d := p.FeatureGate(userWithTier(subscription.TierPro), subscription.FeatureCodeTemplates, subscription.TierPro, subscription.WithPreview(3))
		assert.True(t, d.Granted)
		assert.Empty(t, d.Prompts)
		assert.False(t, d.Preview)
	})

	t.Run("anonymous gets sign in and plans", func(t *testing.T) {
		t.Parallel()
		d := p.FeatureGate(nil, subscription.FeatureExclusiveVideo, subscription.TierPremium)
		assert.False(t, d.Granted)
		assert.Equal(t, []subscription.Prompt{subscription.PromptSignIn, subscription.PromptViewPlans}, d.Prompts)
		assert.Equal(t, subscription.TierPremium, d.RequiredTier)
		assert.Equal(t, "Premium", d.TierName)
		assert.Equal(t, int64(1900), d.Price.Amount)
		assert.False(t, d.Preview)
		assert.Zero(t, d.PreviewLines)
	})

	t.Run("signed in gets upgrade", func(t *testing.T) {
		t.Parallel()
		d := p.FeatureGate(userWithTier(subscription.TierFree), subscription.FeatureAdFree, "", subscription.WithPreview(0))
		assert.Equal(t, []subscription.Prompt{subscription.PromptUpgrade}, d.Prompts)
		assert.Equal(t, subscription.TierPro, d.RequiredTier, "derived from minimum tier")
		assert.True(t, d.Preview)
		assert.Equal(t, 3, d.PreviewLines)
	})

	t.Run("feature marshals as label", func(t *testing.T) {
		t.Parallel()
		d := p.FeatureGate(nil, subscription.FeatureProContent, subscription.TierPro)
		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"feature":"Pro content"`)
	})
}

func TestPolicy_ContentGate(t *testing.T) {
	t.Parallel()
	p := newPolicy(t)

	assert.True(t, p.ContentGate(nil, subscription.ContentPublic).Granted)

	d := p.ContentGate(nil, subscription.ContentPremium)
	assert.False(t, d.Granted)
	assert.Equal(t, subscription.FeaturePremiumContent, d.Feature)
	assert.Equal(t, subscription.TierPremium, d.RequiredTier)
	assert.True(t, d.Preview)
	assert.Equal(t, 4, d.PreviewLines)
	assert.Equal(t, "subscription.premiumPlan", d.MessageKey)

	d = p.ContentGate(userWithTier(subscription.TierFree), subscription.ContentPro)
	assert.False(t, d.Granted)
	assert.Equal(t, subscription.TierPro, d.RequiredTier)

	assert.True(t, p.ContentGate(userWithTier(subscription.TierPro), subscription.ContentPro).Granted)
	assert.True(t, p.ContentGate(userWithTier(subscription.TierPro), subscription.ContentPremium).Granted)
}

func TestPolicy_DownloadGate(t *testing.T) {
	t.Parallel()
	p := newPolicy(t)

	assert.False(t, p.DownloadGate(nil).Granted)
	assert.False(t, p.DownloadGate(userWithTier(subscription.TierFree)).Granted)
	assert.True(t, p.DownloadGate(userWithTier(subscription.TierPro)).Granted)
	assert.True(t, p.DownloadGate(userWithTier(subscription.TierPremium)).Granted)

	// Source code access alone is enough.
	tiers := subscription.DefaultTiers()
	free := tiers[subscription.TierFree]
	free.Features = append(free.Features, subscription.FeatureSourceCode)
	tiers[subscription.TierFree] = free
	custom := subscription.MustNewPolicy(t.Context(), subscription.NewInMemSource(tiers))
	assert.True(t, custom.DownloadGate(nil).Granted)
}

func TestPolicy_UsageGate(t *testing.T) {
	t.Parallel()
	p := newPolicy(t)

	d := p.UsageGate(nil, subscription.UsageAIMessages, 5)
	assert.False(t, d.Allowed)
	assert.Equal(t, "chat.limitReached", d.MessageKey)
	assert.Equal(t, []subscription.Prompt{subscription.PromptSignIn, subscription.PromptViewPlans}, d.Prompts)

	u := userWithTier(subscription.TierFree)
	u.Usage = &subscription.Usage{Searches: 10, LastReset: fixedNow.Add(-time.Minute)}
	d = p.UsageGate(u, subscription.UsageSearches, 0)
	assert.False(t, d.Allowed)
	assert.Equal(t, []subscription.Prompt{subscription.PromptUpgrade}, d.Prompts)

	d = p.UsageGate(userWithTier(subscription.TierPro), subscription.UsageSearches, 999)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.MessageKey)
}
