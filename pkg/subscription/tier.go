package subscription

import (
	"maps"
	"slices"
)

// Tier describes a subscription level with its price and constraints.
type Tier struct {
	ID       TierID
	Name     string
	Price    Money
	Interval BillingInterval
	// Highlights are the marketing bullet points shown on the pricing page.
	Highlights []string
	Popular    bool
	// Features granted by the tier. Order is irrelevant.
	Features []Feature
	// Limits holds the daily quota per usage type; Unlimited (-1) means no quota.
	Limits map[UsageType]int64
}

// HasFeature reports whether the tier grants f.
func (t Tier) HasFeature(f Feature) bool {
	return f.Valid() && slices.Contains(t.Features, f)
}

// Limit returns the daily quota of u and whether the tier defines one.
func (t Tier) Limit(u UsageType) (int64, bool) {
	l, ok := t.Limits[u]
	return l, ok
}

func (t Tier) clone() Tier {
	t.Highlights = slices.Clone(t.Highlights)
	t.Features = slices.Clone(t.Features)
	t.Limits = maps.Clone(t.Limits)
	return t
}

// DefaultTiers returns the shipped tier catalog.
func DefaultTiers() map[TierID]Tier {
	publicFeatures := []Feature{
		FeaturePublicPosts,
		FeatureBasicSearch,
		FeatureAIChat,
		FeatureCommunityAccess,
	}
	proFeatures := append(slices.Clone(publicFeatures),
		FeatureAdvancedSearch,
		FeatureUnlimitedAIChat,
		FeaturePremiumPosts,
		FeaturePremiumContent,
		FeatureProContent,
		FeatureCodeTemplates,
		FeaturePrioritySupport,
		FeatureAdFree,
		FeatureDownloadAccess,
	)
	premiumFeatures := append(slices.Clone(proFeatures),
		FeatureMentoring,
		FeatureExclusiveVideo,
		FeatureSourceCode,
		FeaturePrivateDiscord,
		FeatureMonthlyQA,
		FeatureEarlyAccess,
		FeatureCodeReviews,
	)
	unlimited := map[UsageType]int64{
		UsageAIMessages: Unlimited,
		UsageSearches:   Unlimited,
		UsageDownloads:  Unlimited,
	}

	return map[TierID]Tier{
		TierFree: {
			ID:       TierFree,
			Name:     "Free",
			Price:    Money{Amount: 0, Currency: "USD"},
			Interval: BillingIntervalMonthly,
			Highlights: []string{
				"Access to public posts",
				"Basic search functionality (10/day)",
				"AI chat (5 messages/day)",
				"Community access",
			},
			Features: publicFeatures,
			Limits: map[UsageType]int64{
				UsageAIMessages: 5,
				UsageSearches:   10,
				UsageDownloads:  0,
			},
		},
		TierPro: {
			ID:       TierPro,
			Name:     "Pro",
			Price:    Money{Amount: 900, Currency: "USD"},
			Interval: BillingIntervalMonthly,
			Highlights: []string{
				"All free features",
				"Premium posts & tutorials",
				"Unlimited AI chat",
				"Advanced search functionality",
				"Code templates & snippets",
				"Priority support",
				"Ad-free experience",
				"Download access",
			},
			Popular:  true,
			Features: proFeatures,
			Limits:   maps.Clone(unlimited),
		},
		TierPremium: {
			ID:       TierPremium,
			Name:     "Premium",
			Price:    Money{Amount: 1900, Currency: "USD"},
			Interval: BillingIntervalMonthly,
			Highlights: []string{
				"All Pro features",
				"1-on-1 mentoring sessions",
				"Exclusive video content",
				"Source code access",
				"Private Discord community",
				"Monthly Q&A sessions",
				"Early access to new content",
				"Custom code reviews",
			},
			Features: premiumFeatures,
			Limits:   maps.Clone(unlimited),
		},
	}
}
