package site

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/zenblog/pkg/locale"
	"github.com/dmitrymomot/zenblog/pkg/session"
	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// viewer resolves who is asking. The returned context forwards the
// request cookies so later calls on the store act for the same viewer.
func (s *Server) viewer(r *http.Request) (*session.Store, context.Context) {
	ctx := session.WithCookies(r.Context(), r.Cookies())
	store := session.NewStore(s.accounts, s.policy, session.WithLogger(s.logger))
	// Failures are logged by the store and leave the viewer anonymous.
	_, _ = store.CheckSession(ctx)
	return store, subscription.WithUser(ctx, store.User())
}

// ViewerView summarizes the viewer for the client.
type ViewerView struct {
	State      session.AuthState   `json:"state"`
	Email      string              `json:"email,omitempty"`
	Name       string              `json:"name,omitempty"`
	Tier       subscription.TierID `json:"tier"`
	Subscribed bool                `json:"subscribed"`
}

func (s *Server) viewerView(store *session.Store) ViewerView {
	u := store.User()
	v := ViewerView{
		State:      store.State(),
		Tier:       s.policy.EffectiveTier(u),
		Subscribed: store.IsSubscribed(),
	}
	if u != nil {
		v.Email = u.Email
		v.Name = u.Name
	}
	return v
}

// requireLocale rejects page requests whose prefix is not a supported
// locale and stores the locale in the request context.
func (s *Server) requireLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l, ok := locale.Parse(urlLocale(r))
		if !ok {
			s.notFound(w, r, locale.Default)
			return
		}
		next.ServeHTTP(w, r.WithContext(locale.WithLocale(r.Context(), l)))
	})
}
