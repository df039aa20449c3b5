package subscription

// ContentTier is the access level a post declares.
type ContentTier string

const (
	ContentPublic  ContentTier = "public"
	ContentPro     ContentTier = "pro"
	ContentPremium ContentTier = "premium"
)

// Prompt names an upsell affordance shown when access is denied.
type Prompt string

const (
	PromptUpgrade   Prompt = "upgrade"
	PromptSignIn    Prompt = "sign_in"
	PromptViewPlans Prompt = "view_plans"
)

// GateDecision describes what a gated block should render for a viewer.
type GateDecision struct {
	Granted      bool     `json:"granted"`
	Feature      Feature  `json:"feature"`
	RequiredTier TierID   `json:"requiredTier,omitempty"`
	TierName     string   `json:"tierName,omitempty"`
	Price        Money    `json:"price"`
	Interval     string   `json:"interval,omitempty"`
	Prompts      []Prompt `json:"prompts,omitempty"`
	Preview      bool     `json:"preview"`
	PreviewLines int      `json:"previewLines,omitempty"`
	// MessageKey is the translation key of the denial message.
	MessageKey string `json:"messageKey,omitempty"`
}

// GateOption adjusts a gate decision.
type GateOption func(*GateDecision)

// WithPreview shows the first lines of gated content to viewers without access.
func WithPreview(lines int) GateOption {
	return func(d *GateDecision) {
		d.Preview = true
		if lines > 0 {
			d.PreviewLines = lines
		}
	}
}

// WithMessageKey overrides the denial message.
func WithMessageKey(key string) GateOption {
	return func(d *GateDecision) {
		if key != "" {
			d.MessageKey = key
		}
	}
}

const defaultPreviewLines = 3

// FeatureGate decides whether u may see a block guarded by f.
// When required is empty the lowest tier granting f is advertised.
func (p *Policy) FeatureGate(u *User, f Feature, required TierID, opts ...GateOption) GateDecision {
	d := GateDecision{
		Granted:      p.HasAccess(u, f),
		Feature:      f,
		PreviewLines: defaultPreviewLines,
		MessageKey:   "subscription.unlockPremium",
	}
	for _, opt := range opts {
		opt(&d)
	}
	if d.Granted {
		d.Preview = false
		d.PreviewLines = 0
		d.MessageKey = ""
		return d
	}

	if required == "" {
		required, _ = p.MinimumTier(f)
	}
	if tier, ok := p.tiers[required]; ok {
		d.RequiredTier = tier.ID
		d.TierName = tier.Name
		d.Price = tier.Price
		d.Interval = string(tier.Interval)
	}
	if !d.Preview {
		d.PreviewLines = 0
	}

	if u != nil {
		d.Prompts = []Prompt{PromptUpgrade}
	} else {
		d.Prompts = []Prompt{PromptSignIn, PromptViewPlans}
	}
	return d
}

// ContentGate decides access to a post of the given tier.
// Denied viewers get a four-line preview.
func (p *Policy) ContentGate(u *User, ct ContentTier) GateDecision {
	switch ct {
	case ContentPremium:
		return p.FeatureGate(u, FeaturePremiumContent, TierPremium,
			WithPreview(4), WithMessageKey("subscription.premiumPlan"))
	case ContentPro:
		return p.FeatureGate(u, FeatureProContent, TierPro,
			WithPreview(4), WithMessageKey("subscription.proPlan"))
	}
	return GateDecision{Granted: true, Feature: FeaturePublicPosts}
}

// DownloadGate decides access to downloadable code.
// Either code templates or source code access unlocks downloads.
func (p *Policy) DownloadGate(u *User) GateDecision {
	if p.HasAccess(u, FeatureSourceCode) {
		return GateDecision{Granted: true, Feature: FeatureSourceCode}
	}
	return p.FeatureGate(u, FeatureCodeTemplates, TierPro, WithMessageKey("features.downloadAccess"))
}

// UsageGateDecision is a quota decision with the affordance to show when exhausted.
type UsageGateDecision struct {
	UsageDecision
	UsageType  UsageType `json:"usageType"`
	Prompts    []Prompt  `json:"prompts,omitempty"`
	MessageKey string    `json:"messageKey,omitempty"`
}

var limitMessageKeys = map[UsageType]string{
	UsageAIMessages: "chat.limitReached",
	UsageSearches:   "search.limitReached",
	UsageDownloads:  "features.downloadAccess",
}

// UsageGate wraps CanUseFeature with the "limit reached" affordance.
func (p *Policy) UsageGate(u *User, t UsageType, currentUsage int64) UsageGateDecision {
	d := UsageGateDecision{
		UsageDecision: p.CanUseFeature(u, t, currentUsage),
		UsageType:     t,
	}
	if d.Allowed {
		return d
	}
	d.MessageKey = limitMessageKeys[t]
	if u != nil {
		d.Prompts = []Prompt{PromptUpgrade}
	} else {
		d.Prompts = []Prompt{PromptSignIn, PromptViewPlans}
	}
	return d
}
