// Package usage counts daily feature use for anonymous visitors.
//
// Signed-in users have server-side counters on their account. Anonymous
// visitors are identified by the zb_vid cookie and counted here, per
// calendar day, either in memory or in Redis:
//
//	tracker := usage.NewTracker(usage.NewRedisStore(rdb), usage.WithLocation(loc))
//	visitor := tracker.Visitor(w, r)
//	n, err := tracker.Count(ctx, visitor, subscription.UsageSearches)
//	decision := policy.CanUseFeature(nil, subscription.UsageSearches, n)
//
// Counters roll over at midnight in the tracker's location because the day
// is part of the key.
package usage
