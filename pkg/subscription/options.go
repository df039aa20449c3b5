package subscription

import "time"

// Option configures a Policy.
type Option func(*Policy)

// WithClock overrides the time source used for daily quota checks.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("subscription: WithClock requires a non-nil clock")
	}
	return func(p *Policy) { p.now = now }
}

// WithLocation sets the viewer's time zone. Daily quotas reset at local midnight.
func WithLocation(loc *time.Location) Option {
	if loc == nil {
		panic("subscription: WithLocation requires a non-nil location")
	}
	return func(p *Policy) { p.loc = loc }
}
