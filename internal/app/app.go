package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/zenblog/internal/backend"
	"github.com/dmitrymomot/zenblog/internal/config"
	"github.com/dmitrymomot/zenblog/internal/metrics"
	"github.com/dmitrymomot/zenblog/internal/site"
	"github.com/dmitrymomot/zenblog/pkg/content"
	"github.com/dmitrymomot/zenblog/pkg/i18n"
	"github.com/dmitrymomot/zenblog/pkg/locale"
	"github.com/dmitrymomot/zenblog/pkg/logger"
	"github.com/dmitrymomot/zenblog/pkg/session"
	"github.com/dmitrymomot/zenblog/pkg/subscription"
	"github.com/dmitrymomot/zenblog/pkg/usage"
)

const pruneInterval = time.Hour

// App is a fully wired blog server.
type App struct {
	cfg      config.Config
	log      *slog.Logger
	handler  http.Handler
	server   *Server
	sessions *backend.Sessions
	redis    *redis.Client
	memory   *usage.MemoryStore
	tracker  *usage.Tracker
}

// New builds the application from cfg. Close releases what it opened.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = logger.Discard()
	}
	a := &App{cfg: cfg, log: log}

	loc, err := cfg.Location()
	if err != nil {
		return nil, errors.Join(ErrInit, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	if err := subscription.CheckMonotonic(subscription.DefaultTiers()); err != nil {
		log.WarnContext(ctx, "tier catalog is not monotonic", logger.Error(err))
	}
	policy, err := subscription.NewPolicy(ctx, subscription.DefaultSource(), subscription.WithLocation(loc))
	if err != nil {
		return nil, errors.Join(ErrInit, err)
	}

	accounts := backend.NewAccounts()
	if _, err := accounts.Register(cfg.Backend.DemoEmail, "Demo Reader", cfg.Backend.DemoPassword, cfg.Backend.DemoTier); err != nil {
		return nil, errors.Join(ErrInit, err)
	}
	a.sessions = backend.NewSessions(cfg.Backend.SessionTTL, time.Minute)
	api := backend.New(accounts, a.sessions, policy,
		backend.WithLogger(log),
		backend.WithMetrics(collector),
		backend.WithLoginRate(cfg.Backend.LoginRate, cfg.Backend.LoginBurst),
		backend.WithSecureCookie(cfg.SecureCookies),
	)

	translator, err := i18n.Default(ctx, i18n.WithLogger(log))
	if err != nil {
		a.Close()
		return nil, errors.Join(ErrInit, err)
	}

	store, checks, err := a.usageStore(ctx)
	if err != nil {
		a.Close()
		return nil, errors.Join(ErrInit, err)
	}
	a.tracker = usage.NewTracker(store, usage.WithLocation(loc), usage.WithSecureCookie(cfg.SecureCookies))

	blog := site.New(site.Deps{
		Policy:     policy,
		Translator: translator,
		Posts:      postsRepository(cfg.Content),
		Renderer:   content.NewMarkdownRenderer(content.WithCache(cfg.Content.RenderCacheSize)),
		Accounts: session.NewHTTPClient(apiBaseURL(cfg),
			session.WithHTTPClient(&http.Client{Timeout: 5 * time.Second})),
		Tracker: a.tracker,
	},
		site.WithLogger(log),
		site.WithMetrics(collector),
		site.WithSecureCookie(cfg.SecureCookies),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(collector.Middleware)
	r.Use(blog.RedirectPolicy(locale.WithExcludedPrefixes("/health/", "/metrics")).Middleware)

	r.Get("/health/live", HealthCheckHandler(log))
	r.Get("/health/ready", HealthCheckHandler(log, checks...))
	if cfg.Metrics {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	}
	r.Route("/api", func(r chi.Router) {
		api.Register(r)
		blog.RegisterAPI(r)
	})
	blog.Register(r)
	a.handler = r

	a.server = NewServer(cfg.HTTP,
		WithServerLogger(log),
		WithStartHook(func(l *slog.Logger) {
			l.Info("http server started", slog.String("addr", cfg.HTTP.Addr))
		}),
		WithStopHook(func(l *slog.Logger) {
			l.Info("http server stopped")
		}),
	)
	return a, nil
}

// usageStore picks redis when configured and memory otherwise, and
// returns the readiness checks that go with it.
func (a *App) usageStore(ctx context.Context) (usage.Store, []func(context.Context) error, error) {
	ready := func(context.Context) error { return nil }
	if a.cfg.Redis.URL == "" {
		a.memory = usage.NewMemoryStore()
		return a.memory, []func(context.Context) error{ready}, nil
	}
	client, err := ConnectRedis(ctx, a.cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	a.redis = client
	a.log.InfoContext(ctx, "anonymous usage counters in redis")
	return usage.NewRedisStore(client), []func(context.Context) error{RedisHealthcheck(client)}, nil
}

func postsRepository(cfg config.Content) *content.Repository {
	var fsys fs.FS = site.Posts
	dir := site.PostsDir
	if cfg.Dir != "" {
		fsys, dir = os.DirFS(cfg.Dir), "."
	}
	return content.NewRepository(fsys, dir)
}

// apiBaseURL is where the site reaches the account endpoints. Without an
// explicit URL it is this process over loopback.
func apiBaseURL(cfg config.Config) string {
	if cfg.APIBaseURL != "" {
		return strings.TrimRight(cfg.APIBaseURL, "/")
	}
	host, port, err := net.SplitHostPort(cfg.HTTP.Addr)
	if err != nil {
		port = strings.TrimPrefix(cfg.HTTP.Addr, ":")
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s/api", net.JoinHostPort(host, port))
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Run serves until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a.memory != nil {
		go a.pruneLoop(ctx)
	}
	return a.server.Run(ctx, a.handler)
}

// pruneLoop drops anonymous counters of past days from memory.
func (a *App) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.memory.Prune(a.tracker.Today()); n > 0 {
				a.log.DebugContext(ctx, "pruned usage counters", slog.Int("count", n))
			}
		}
	}
}

// Close releases background workers and connections.
func (a *App) Close() {
	if a.sessions != nil {
		a.sessions.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("closing redis", logger.Error(err))
		}
	}
}
