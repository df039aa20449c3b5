// Package locale resolves the active language of a request.
//
// Seven locales are supported, English being the default. Pages live under a
// locale prefix (/es/blog/post); FromPath strips it and LocalizedPath adds it
// back, leaving default-locale paths unprefixed.
//
// RedirectPolicy is the request-side half: an unprefixed page request is
// redirected to the locale named by the "locale" cookie, else the first
// Accept-Language range whose primary subtag is supported, else English. API
// routes, static assets and anything that looks like a file are left alone.
//
//	policy := locale.NewRedirectPolicy()
//	r.Use(policy.Middleware)
//	...
//	l := locale.FromContext(r.Context())
//	dir := locale.Direction(l) // "rtl" for Arabic
//
// Detect and ClientRedirect carry the client-side precedence (stored
// preference, browser language, declared page language) for callers that
// receive those values from the browser.
package locale
