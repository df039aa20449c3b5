// Package session holds the signed-in state of one viewer.
//
// A Store wraps a Client for the remote account endpoints and a
// subscription.Policy for access checks. It tracks an AuthState that
// starts at unknown and settles on anonymous or authenticated after the
// first CheckSession:
//
//	store := session.NewStore(session.NewHTTPClient(apiURL), policy)
//	if _, err := store.CheckSession(ctx); err != nil {
//		log.Warn("session check failed", logger.Error(err))
//	}
//	if store.HasAccess(subscription.FeatureAIChat) {
//		// ...
//	}
//
// A 401 from any authenticated call drops the store to anonymous. Logout
// clears the local user even when the remote call fails.
//
// HTTPClient keeps cookies in a jar, or forwards the cookies attached to
// the context with WithCookies when acting for a browser request.
package session
