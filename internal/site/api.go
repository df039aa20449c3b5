package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/zenblog/pkg/locale"
	"github.com/dmitrymomot/zenblog/pkg/logger"
	"github.com/dmitrymomot/zenblog/pkg/session"
	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// translations serves the whole string tree of a locale.
func (s *Server) translations(w http.ResponseWriter, r *http.Request) {
	l, ok := locale.Parse(urlLocale(r))
	if !ok {
		s.notFound(w, r, locale.Default)
		return
	}
	data, err := s.translator.ExportJSON(l.String())
	if err != nil {
		s.serverError(w, r, l, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// preferLocale stores an explicit locale choice for future redirects.
func (s *Server) preferLocale(w http.ResponseWriter, r *http.Request) {
	l, ok := locale.Parse(urlLocale(r))
	if !ok {
		s.notFound(w, r, locale.Default)
		return
	}
	c := locale.PreferenceCookie(s.cookieName, l)
	c.Secure = s.secureCookie
	http.SetCookie(w, c)
	w.WriteHeader(http.StatusNoContent)
}

// QuotaView is the viewer's standing for one usage type today.
type QuotaView struct {
	subscription.UsageGateDecision
	Used    int64  `json:"used"`
	Message string `json:"message,omitempty"`
}

func (s *Server) quota(w http.ResponseWriter, r *http.Request) {
	l := locale.FromContext(r.Context())
	t, ok := subscription.ParseUsageType(chi.URLParam(r, "type"))
	if !ok {
		s.notFound(w, r, l)
		return
	}
	store, ctx := s.viewer(r)
	q := s.counter(w, r, store)
	used, err := q.used(ctx, t)
	if err != nil {
		s.serverError(w, r, l, err)
		return
	}
	writeJSON(w, http.StatusOK, s.quotaView(store.User(), t, used, l))
}

// consume spends one unit of a quota. Signed-in viewers are counted by
// the account endpoints, anonymous ones by the visitor tracker.
func (s *Server) consume(w http.ResponseWriter, r *http.Request) {
	l := locale.FromContext(r.Context())
	t, ok := subscription.ParseUsageType(chi.URLParam(r, "type"))
	if !ok {
		s.notFound(w, r, l)
		return
	}
	store, ctx := s.viewer(r)
	q := s.counter(w, r, store)
	used, err := q.used(ctx, t)
	if err != nil {
		s.serverError(w, r, l, err)
		return
	}

	u := store.User()
	decision := s.policy.CanUseFeature(u, t, used)
	s.metrics.RecordUsage(t.String(), decision.Allowed)
	if !decision.Allowed {
		s.logger.InfoContext(ctx, "quota exhausted",
			logger.UsageType(t.String()), logger.Tier(s.policy.EffectiveTier(u).String()))
		writeJSON(w, http.StatusTooManyRequests, s.quotaView(u, t, used, l))
		return
	}

	used, err = q.record(ctx, t)
	var se *session.StatusError
	switch {
	case err == nil:
	case store.State() == session.StateAnonymous && u != nil:
		// The session ended between the check and the increment.
		writeJSON(w, http.StatusUnauthorized, ErrorView{
			Error:   "unauthorized",
			Message: s.translator.T(l.String(), "errors.unauthorized"),
		})
		return
	case errors.As(err, &se) && se.Code == http.StatusTooManyRequests:
		writeJSON(w, http.StatusTooManyRequests, s.quotaView(u, t, used, l))
		return
	default:
		s.serverError(w, r, l, err)
		return
	}
	writeJSON(w, http.StatusOK, s.quotaView(store.User(), t, used, l))
}

// quotaCounter reads and advances today's count for one viewer.
type quotaCounter struct {
	s       *Server
	store   *session.Store
	visitor string
}

func (s *Server) counter(w http.ResponseWriter, r *http.Request, store *session.Store) quotaCounter {
	q := quotaCounter{s: s, store: store}
	if store.User() == nil {
		q.visitor = s.tracker.Visitor(w, r)
	}
	return q
}

func (q quotaCounter) used(ctx context.Context, t subscription.UsageType) (int64, error) {
	if u := q.store.User(); u != nil {
		return q.s.policy.DailyUsage(u, t), nil
	}
	return q.s.tracker.Count(ctx, q.visitor, t)
}

func (q quotaCounter) record(ctx context.Context, t subscription.UsageType) (int64, error) {
	if q.visitor != "" {
		return q.s.tracker.Record(ctx, q.visitor, t)
	}
	if err := q.store.IncrementUsage(ctx, t); err != nil {
		return q.s.policy.DailyUsage(q.store.User(), t), err
	}
	return q.s.policy.DailyUsage(q.store.User(), t), nil
}

// quotaView describes the state after used units were spent, so Allowed
// tells whether one more is possible.
func (s *Server) quotaView(u *subscription.User, t subscription.UsageType, used int64, l locale.Locale) QuotaView {
	d := s.policy.UsageGate(u, t, used)
	v := QuotaView{UsageGateDecision: d, Used: used}
	if d.MessageKey != "" {
		v.Message = s.translator.T(l.String(), d.MessageKey)
	}
	return v
}
