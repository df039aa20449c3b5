package usage

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// VisitorCookie names the cookie identifying an anonymous visitor.
const VisitorCookie = "zb_vid"

const visitorMaxAge = 365 * 24 * time.Hour

// Tracker binds a Store to HTTP requests: it identifies the visitor by
// cookie and picks the calendar day in the configured location.
type Tracker struct {
	store  Store
	now    func() time.Time
	loc    *time.Location
	secure bool
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLocation sets the time zone that decides where a day ends.
func WithLocation(loc *time.Location) TrackerOption {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithSecureCookie marks the visitor cookie Secure.
func WithSecureCookie(secure bool) TrackerOption {
	return func(t *Tracker) { t.secure = secure }
}

// NewTracker creates a tracker over store.
func NewTracker(store Store, opts ...TrackerOption) *Tracker {
	t := &Tracker{store: store, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Today returns the current time in the tracker's location.
func (t *Tracker) Today() time.Time {
	return t.now().In(t.loc)
}

// Visitor returns the visitor id of r, issuing a cookie on w when r has
// none or a malformed one.
func (t *Tracker) Visitor(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Count returns today's counter for visitor.
func (t *Tracker) Count(ctx context.Context, visitor string, kind subscription.UsageType) (int64, error) {
	return t.store.Get(ctx, visitor, kind, t.Today())
}

// Record increments today's counter for visitor and returns the new value.
func (t *Tracker) Record(ctx context.Context, visitor string, kind subscription.UsageType) (int64, error) {
	return t.store.Increment(ctx, visitor, kind, t.Today())
}
