// Package subscription implements tier-based access control for the blog.
//
// Three tiers (free, pro, premium) each declare the features they grant and a
// daily quota per usage type. A Policy combines that catalog with the current
// user and answers two questions:
//
//   - HasAccess: does the viewer's effective tier grant a feature?
//   - CanUseFeature: may the viewer perform one more quota-limited action today?
//
// The effective tier is resolved in one place, Policy.EffectiveTier: anonymous
// viewers and users without a subscription are treated as free. Unknown
// features, tiers and usage types always deny; nothing in the policy returns an
// error once it has been built.
//
// Basic usage:
//
//	policy, err := subscription.NewPolicy(ctx, subscription.DefaultSource())
//	if err != nil {
//	    return err
//	}
//
//	if policy.HasAccess(user, subscription.FeaturePremiumContent) {
//	    // render the post
//	}
//
//	d := policy.CanUseFeature(user, subscription.UsageAIMessages, anonymousCount)
//	if !d.Allowed {
//	    // render the "limit reached" affordance using *d.Remaining
//	}
//
// Daily quotas for authenticated users come from the server-tracked counters in
// User.Usage. They count only when LastReset falls on today's calendar date in
// the policy's location (see WithLocation); otherwise usage is zero.
//
// Gates (FeatureGate, ContentGate, DownloadGate, UsageGate) turn decisions into
// the data an upsell block needs: the required tier, its price and the prompts
// to offer (upgrade for signed-in users, sign in and view plans otherwise).
//
// User payloads cross the wire through DecodeUser and EncodeUser; timestamps are
// parsed there and nowhere else.
package subscription
