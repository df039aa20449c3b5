package site

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/zenblog/internal/metrics"
	"github.com/dmitrymomot/zenblog/pkg/content"
	"github.com/dmitrymomot/zenblog/pkg/i18n"
	"github.com/dmitrymomot/zenblog/pkg/locale"
	"github.com/dmitrymomot/zenblog/pkg/logger"
	"github.com/dmitrymomot/zenblog/pkg/session"
	"github.com/dmitrymomot/zenblog/pkg/subscription"
	"github.com/dmitrymomot/zenblog/pkg/usage"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Policy     *subscription.Policy
	Translator *i18n.Translator
	Posts      *content.Repository
	Renderer   content.Renderer
	Accounts   session.Client
	Tracker    *usage.Tracker
}

// Server handles the localized pages and the site API.
type Server struct {
	policy     *subscription.Policy
	translator *i18n.Translator
	posts      *content.Repository
	renderer   content.Renderer
	accounts   session.Client
	tracker    *usage.Tracker

	logger       *slog.Logger
	metrics      metrics.Recorder
	now          func() time.Time
	cookieName   string
	secureCookie bool
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m metrics.Recorder) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocaleCookie sets the cookie that stores an explicit locale choice.
// It must match the redirect policy's cookie.
func WithLocaleCookie(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
	}
}

func WithSecureCookie(secure bool) Option {
	return func(s *Server) { s.secureCookie = secure }
}

// New creates a Server. It panics when a dependency is missing.
func New(deps Deps, opts ...Option) *Server {
	if deps.Policy == nil || deps.Translator == nil || deps.Posts == nil ||
		deps.Renderer == nil || deps.Accounts == nil || deps.Tracker == nil {
		panic("site: incomplete dependencies")
	}
	s := &Server{
		policy:     deps.Policy,
		translator: deps.Translator,
		posts:      deps.Posts,
		renderer:   deps.Renderer,
		accounts:   deps.Accounts,
		tracker:    deps.Tracker,
		logger:     logger.Discard(),
		metrics:    metrics.Nop{},
		now:        time.Now,
		cookieName: locale.DefaultCookieName,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("site"))
	return s
}

// RedirectPolicy returns the locale redirect for the routes of this
// server, reporting every redirect to the metrics recorder.
func (s *Server) RedirectPolicy(opts ...locale.RedirectOption) *locale.RedirectPolicy {
	opts = append([]locale.RedirectOption{
		locale.WithCookieName(s.cookieName),
		locale.WithRedirectHook(func(r *http.Request, l locale.Locale) {
			s.metrics.RecordRedirect(l.String())
			s.logger.DebugContext(r.Context(), "locale redirect",
				logger.Locale(l.String()), slog.String("path", r.URL.Path))
		}),
	}, opts...)
	return locale.NewRedirectPolicy(opts...)
}

// Register adds the page routes to r.
func (s *Server) Register(r chi.Router) {
	r.Route("/{locale}", func(r chi.Router) {
		r.Use(s.requireLocale)
		r.Get("/", s.home)
		r.Get("/blog/{slug}", s.post)
		r.Get("/pricing", s.pricing)
	})
}

// RegisterAPI adds the site API to r, which must be served under /api.
func (s *Server) RegisterAPI(r chi.Router) {
	r.Get("/i18n/{locale}", s.translations)
	r.Post("/locale/{locale}", s.preferLocale)
	r.Get("/quota/{type}", s.quota)
	r.Post("/quota/{type}/consume", s.consume)
}
