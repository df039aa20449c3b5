package backend

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/zenblog/internal/metrics"
	"github.com/dmitrymomot/zenblog/pkg/logger"
	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// SessionCookie carries the session token.
const SessionCookie = "zb_session"

const maxBodyBytes = 1 << 16

// Server implements the account endpoints.
type Server struct {
	accounts  *Accounts
	sessions  *Sessions
	policy    *subscription.Policy
	checkouts *checkouts
	limiter   *loginLimiter
	logger    *slog.Logger
	metrics   metrics.Recorder
	now       func() time.Time

	basePath     string
	returnPath   string
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

// WithLoginRate limits login attempts per client IP to r per second with
// the given burst. A zero rate disables the limit.
func WithLoginRate(r float64, burst int) Option {
	return func(s *Server) {
		s.limiter = newLoginLimiter(rate.Limit(r), max(burst, 1))
	}
}

// WithBasePath sets the prefix the routes are mounted under. It is used
// to build checkout URLs. Defaults to "/api".
func WithBasePath(p string) Option {
	return func(s *Server) { s.basePath = p }
}

// WithReturnPath sets where a completed checkout lands.
// Defaults to "/pricing?checkout=success".
func WithReturnPath(p string) Option {
	return func(s *Server) {
		if p != "" {
			s.returnPath = p
		}
	}
}

func WithSecureCookie(secure bool) Option {
	return func(s *Server) { s.secureCookie = secure }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Server. It panics when a dependency is missing.
func New(accounts *Accounts, sessions *Sessions, policy *subscription.Policy, opts ...Option) *Server {
	if accounts == nil || sessions == nil || policy == nil {
		panic("backend: accounts, sessions and policy are required")
	}
	s := &Server{
		accounts:   accounts,
		sessions:   sessions,
		policy:     policy,
		checkouts:  newCheckouts(),
		limiter:    newLoginLimiter(0, 1),
		logger:     logger.Discard(),
		metrics:    metrics.Nop{},
		now:        time.Now,
		basePath:   "/api",
		returnPath: "/pricing?checkout=success",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("backend"))
	return s
}

// Routes returns the endpoint router, to be mounted at the base path.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// Register adds the endpoints to r, which must be served at the base path.
func (s *Server) Register(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/me", s.me)
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)
	})
	r.Route("/subscriptions", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Post("/create", s.createSubscription)
		r.Post("/cancel", s.cancelSubscription)
	})
	r.With(s.requireSession).Post("/usage/increment", s.incrementUsage)
	r.Get("/checkout/{id}", s.completeCheckout)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	s.writeUser(w, r, sess.AccountID)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !s.limiter.allow(clientIP(r), s.now()) {
		s.metrics.RecordLogin(false)
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter(s.limiter.rate)))
		writeError(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := s.accounts.Authenticate(body.Email, body.Password)
	if err != nil {
		s.metrics.RecordLogin(false)
		s.logger.InfoContext(ctx, "login rejected", logger.Error(err))
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	sess := s.sessions.Create(id)
	s.metrics.RecordLogin(true)
	s.logger.InfoContext(ctx, "login", logger.UserID(id))
	http.SetCookie(w, s.sessionCookie(sess.Token, int(s.sessions.TTL().Seconds())))
	s.writeUser(w, r, id)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.sessions.Delete(c.Value)
	}
	http.SetCookie(w, s.sessionCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var body struct {
		TierID string `json:"tierId"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	tier := subscription.TierID(body.TierID)
	if !tier.Valid() || tier == subscription.TierFree {
		writeError(w, http.StatusBadRequest, "Unknown tier")
		return
	}

	id := s.checkouts.start(sess.AccountID, tier, s.now())
	s.logger.InfoContext(r.Context(), "checkout started",
		logger.UserID(sess.AccountID), logger.Tier(tier.String()))
	writeJSON(w, http.StatusOK, map[string]string{
		"checkoutUrl": s.basePath + "/checkout/" + id,
	})
}

func (s *Server) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.accounts.Cancel(sess.AccountID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "subscription canceled", logger.UserID(sess.AccountID))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) incrementUsage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var body struct {
		Type string `json:"type"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	t, ok := subscription.ParseUsageType(body.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown usage type")
		return
	}

	usage, err := s.accounts.Increment(sess.AccountID, t, s.policy)
	s.metrics.RecordUsage(t.String(), err == nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := subscription.EncodeUsage(usage)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, data)
}

// completeCheckout simulates the payment provider's success redirect.
func (s *Server) completeCheckout(w http.ResponseWriter, r *http.Request) {
	p, err := s.checkouts.complete(chi.URLParam(r, "id"), s.now())
	if err != nil {
		writeError(w, http.StatusNotFound, "Checkout not found")
		return
	}
	if err := s.accounts.Activate(p.accountID, p.tier); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "checkout completed",
		logger.UserID(p.accountID), logger.Tier(p.tier.String()))
	http.Redirect(w, r, s.returnPath, http.StatusSeeOther)
}

func (s *Server) writeUser(w http.ResponseWriter, r *http.Request, accountID string) {
	u, err := s.accounts.User(accountID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := subscription.EncodeUser(u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		// The session outlived its account.
		writeError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, ErrLimitReached):
		writeError(w, http.StatusTooManyRequests, "Daily limit reached")
	case errors.Is(err, ErrTierNotPurchasable):
		writeError(w, http.StatusBadRequest, "Unknown tier")
	default:
		s.logger.ErrorContext(r.Context(), "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func retryAfter(r rate.Limit) int {
	if r <= 0 {
		return 1
	}
	return max(int(math.Ceil(1/float64(r))), 1)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
