package session_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrymomot/zenblog/pkg/session"
	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

const sessionCookie = "zb_session"

// fakeAccounts serves the account endpoints for a single known user.
type fakeAccounts struct {
	mu         sync.Mutex
	loggedIn   bool
	tier       subscription.TierID
	usage      subscription.Usage
	meStatus   int // overrides /auth/me when non-zero
	failLogout bool
	failCancel bool
	calls      map[string]int
}

func newFakeAccounts(t *testing.T) (*fakeAccounts, *httptest.Server) {
	t.Helper()
	f := &fakeAccounts{tier: subscription.TierFree, calls: map[string]int{}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", f.me)
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("POST /api/auth/logout", f.logout)
	mux.HandleFunc("POST /api/subscriptions/create", f.create)
	mux.HandleFunc("POST /api/subscriptions/cancel", f.cancel)
	mux.HandleFunc("POST /api/usage/increment", f.increment)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAccounts) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAccounts) authorized(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	return err == nil && c.Value == "token" && f.loggedIn
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAccounts) me(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["me"]++
	if f.meStatus != 0 {
		w.WriteHeader(f.meStatus)
		return
	}
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}
	data, _ := subscription.EncodeUser(&subscription.User{
		ID:    "1",
		Email: "demo@example.com",
		Subscription: &subscription.Subscription{
			Tier:             f.tier,
			Status:           subscription.StatusActive,
			CurrentPeriodEnd: time.Now().AddDate(0, 1, 0),
		},
		Usage: &f.usage,
	})
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (f *fakeAccounts) login(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["login"]++
	var body struct{ Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Email != "demo@example.com" || body.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}
	f.loggedIn = true
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "token", Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (f *fakeAccounts) logout(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["logout"]++
	if f.failLogout {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	f.loggedIn = false
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeAccounts) create(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
		return
	}
	var body struct {
		TierID string `json:"tierId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	writeJSON(w, http.StatusOK, map[string]string{"checkoutUrl": "/api/checkout/" + body.TierID})
}

func (f *fakeAccounts) cancel(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["cancel"]++
	if f.failCancel {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
		return
	}
	if !f.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	f.tier = subscription.TierFree
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeAccounts) increment(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["increment"]++
	if !f.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var body struct{ Type string }
	_ = json.NewDecoder(r.Body).Decode(&body)
	t, _ := subscription.ParseUsageType(body.Type)
	f.usage = f.usage.With(t, f.usage.Count(t)+1)
	f.usage.LastReset = time.Now()
	data, _ := subscription.EncodeUsage(f.usage)
	_, _ = w.Write(data)
}

func newStore(t *testing.T, srv *httptest.Server, opts ...session.Option) *session.Store {
	t.Helper()
	policy := subscription.MustNewPolicy(t.Context(), subscription.DefaultSource())
	return session.NewStore(session.NewHTTPClient(srv.URL+"/api"), policy, opts...)
}
