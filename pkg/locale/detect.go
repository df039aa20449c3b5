package locale

import (
	"net/http"
	"strings"
	"time"
)

// PreferenceKey is the client storage key of an explicitly chosen locale.
const PreferenceKey = "preferred-language"

// Detect picks the locale for a client that landed on an unprefixed page.
// Candidates are tried in order: the stored preference, the browser-reported
// language, then the language the page already declares. Each candidate is
// reduced to its primary subtag. Default is returned when none is supported.
// A stored or browser value equal to Default is a match and ends detection.
func Detect(stored, browser, declared string) Locale {
	for _, candidate := range []string{stored, browser, declared} {
		if l, ok := primary(candidate); ok {
			return l
		}
	}
	return Default
}

// ClientRedirect reports where a client on pathname should be sent after detection.
// Only pages served in the default locale are redirected.
func ClientRedirect(pathname, stored, browser, declared string) (string, bool) {
	if current, _ := FromPath(pathname); current != Default {
		return "", false
	}
	l := Detect(stored, browser, declared)
	if l == Default {
		return "", false
	}
	return LocalizedPath(pathname, l), true
}

const preferenceMaxAge = 365 * 24 * time.Hour

// PreferenceCookie persists l as the redirect policy's stored preference.
func PreferenceCookie(name string, l Locale) *http.Cookie {
	if name == "" {
		name = DefaultCookieName
	}
	return &http.Cookie{
		Name:     name,
		Value:    string(Validate(string(l))),
		Path:     "/",
		MaxAge:   int(preferenceMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
}

func primary(candidate string) (Locale, bool) {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if candidate == "" {
		return "", false
	}
	code, _, _ := strings.Cut(candidate, "-")
	code, _, _ = strings.Cut(code, "_")
	return Parse(code)
}
