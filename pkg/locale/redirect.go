package locale

import (
	"net/http"
	"strings"
)

// DefaultCookieName is the cookie holding a previously chosen locale.
const DefaultCookieName = "locale"

// RedirectPolicy sends unprefixed page requests to their localized URL.
type RedirectPolicy struct {
	cookieName string
	excluded   []string
	statusCode int
	onRedirect func(r *http.Request, l Locale)
}

// RedirectOption configures a RedirectPolicy.
type RedirectOption func(*RedirectPolicy)

// WithCookieName sets the cookie consulted for a stored preference.
func WithCookieName(name string) RedirectOption {
	return func(p *RedirectPolicy) {
		if name != "" {
			p.cookieName = name
		}
	}
}

// WithExcludedPrefixes adds path prefixes that are never redirected.
func WithExcludedPrefixes(prefixes ...string) RedirectOption {
	return func(p *RedirectPolicy) {
		for _, prefix := range prefixes {
			if prefix != "" {
				p.excluded = append(p.excluded, prefix)
			}
		}
	}
}

// WithStatusCode sets the redirect status. Panics on a non-3xx code.
func WithStatusCode(code int) RedirectOption {
	if code < 300 || code > 399 {
		panic("locale: redirect status must be 3xx")
	}
	return func(p *RedirectPolicy) { p.statusCode = code }
}

// WithRedirectHook registers fn to be called for every redirect issued.
func WithRedirectHook(fn func(r *http.Request, l Locale)) RedirectOption {
	return func(p *RedirectPolicy) { p.onRedirect = fn }
}

// NewRedirectPolicy returns a policy excluding /api/, /static/, /_assets/, /favicon.ico
// and any path with a file extension.
func NewRedirectPolicy(opts ...RedirectOption) *RedirectPolicy {
	p := &RedirectPolicy{
		cookieName: DefaultCookieName,
		excluded:   []string{"/api/", "/static/", "/_assets/", "/favicon.ico"},
		statusCode: http.StatusTemporaryRedirect,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Excluded reports whether pathname is never redirected.
func (p *RedirectPolicy) Excluded(pathname string) bool {
	for _, prefix := range p.excluded {
		if strings.HasPrefix(pathname, prefix) {
			return true
		}
	}
	return strings.Contains(pathname, ".")
}

// Preferred resolves the locale for r from the preference cookie, then
// Accept-Language, then Default.
func (p *RedirectPolicy) Preferred(r *http.Request) Locale {
	if c, err := r.Cookie(p.cookieName); err == nil {
		if l, ok := Parse(strings.TrimSpace(c.Value)); ok {
			return l
		}
	}
	if l, ok := MatchAcceptLanguage(r.Header.Get("Accept-Language")); ok {
		return l
	}
	return Default
}

// Target returns the localized URL for r and whether a redirect is due.
// Requests already carrying a locale prefix and excluded paths yield false.
func (p *RedirectPolicy) Target(r *http.Request) (string, Locale, bool) {
	pathname := r.URL.Path
	if pathname == "" {
		pathname = "/"
	}
	if _, ok := PrefixOf(pathname); ok || p.Excluded(pathname) {
		return "", "", false
	}

	l := p.Preferred(r)
	target := "/" + string(l)
	if pathname != "/" {
		target += pathname
	}
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return target, l, true
}

// Middleware redirects unprefixed page requests and stores the resolved
// locale in the context of every request it lets through.
func (p *RedirectPolicy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l, ok := PrefixOf(r.URL.Path); ok {
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), l)))
			return
		}

		target, l, ok := p.Target(r)
		if !ok {
			next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), p.Preferred(r))))
			return
		}

		if p.onRedirect != nil {
			p.onRedirect(r, l)
		}
		http.Redirect(w, r, target, p.statusCode)
	})
}
