package subscription

// Feature is a capability gated by tier.
// The zero value is FeatureUnknown and is never granted.
type Feature uint8

const (
	FeatureUnknown Feature = iota
	FeaturePublicPosts
	FeatureBasicSearch
	FeatureAdvancedSearch
	FeatureAIChat
	FeatureUnlimitedAIChat
	FeatureCommunityAccess
	FeaturePremiumPosts
	FeaturePremiumContent
	FeatureProContent
	FeatureCodeTemplates
	FeaturePrioritySupport
	FeatureAdFree
	FeatureDownloadAccess
	FeatureMentoring
	FeatureExclusiveVideo
	FeatureSourceCode
	FeaturePrivateDiscord
	FeatureMonthlyQA
	FeatureEarlyAccess
	FeatureCodeReviews

	featureCount
)

var featureLabels = [featureCount]string{
	FeatureUnknown:         "",
	FeaturePublicPosts:     "Access to public posts",
	FeatureBasicSearch:     "Basic search functionality",
	FeatureAdvancedSearch:  "Advanced search functionality",
	FeatureAIChat:          "AI chat",
	FeatureUnlimitedAIChat: "Unlimited AI chat",
	FeatureCommunityAccess: "Community access",
	FeaturePremiumPosts:    "Premium posts & tutorials",
	FeaturePremiumContent:  "Premium content",
	FeatureProContent:      "Pro content",
	FeatureCodeTemplates:   "Code templates",
	FeaturePrioritySupport: "Priority support",
	FeatureAdFree:          "Ad-free experience",
	FeatureDownloadAccess:  "Download access",
	FeatureMentoring:       "1-on-1 mentoring sessions",
	FeatureExclusiveVideo:  "Exclusive video content",
	FeatureSourceCode:      "Source code access",
	FeaturePrivateDiscord:  "Private Discord community",
	FeatureMonthlyQA:       "Monthly Q&A sessions",
	FeatureEarlyAccess:     "Early access to new content",
	FeatureCodeReviews:     "Custom code reviews",
}

var featuresByLabel = func() map[string]Feature {
	m := make(map[string]Feature, featureCount)
	for f := FeaturePublicPosts; f < featureCount; f++ {
		m[featureLabels[f]] = f
	}
	return m
}()

// ParseFeature maps a display label onto the feature it names.
// Unrecognised labels yield FeatureUnknown.
func ParseFeature(label string) Feature {
	return featuresByLabel[label]
}

// AllFeatures returns every known feature in declaration order.
func AllFeatures() []Feature {
	out := make([]Feature, 0, featureCount-1)
	for f := FeaturePublicPosts; f < featureCount; f++ {
		out = append(out, f)
	}
	return out
}

// Valid reports whether f is a known feature.
func (f Feature) Valid() bool {
	return f > FeatureUnknown && f < featureCount
}

// String returns the display label of the feature.
func (f Feature) String() string {
	if !f.Valid() {
		return "unknown"
	}
	return featureLabels[f]
}

// MarshalText encodes the feature as its display label.
func (f Feature) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a display label. Unknown labels decode to FeatureUnknown.
func (f *Feature) UnmarshalText(b []byte) error {
	*f = ParseFeature(string(b))
	return nil
}
