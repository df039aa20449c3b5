package locale

import "strings"

// FromPath splits a locale prefix off pathname.
// When the first non-empty segment is a supported locale it is returned with
// the remaining segments joined behind a single leading slash. Otherwise the
// result is Default and pathname unchanged.
func FromPath(pathname string) (Locale, string) {
	segments := splitSegments(pathname)
	if len(segments) > 0 {
		if l, ok := Parse(segments[0]); ok {
			return l, "/" + strings.Join(segments[1:], "/")
		}
	}
	return Default, pathname
}

// PrefixOf returns the locale pathname already starts with, as in /es or /es/...
func PrefixOf(pathname string) (Locale, bool) {
	for _, l := range supported {
		prefix := "/" + string(l)
		if pathname == prefix || strings.HasPrefix(pathname, prefix+"/") {
			return l, true
		}
	}
	return "", false
}

// LocalizedPath returns the URL of path in locale l.
// The default locale is served unprefixed so path is returned as is.
func LocalizedPath(path string, l Locale) string {
	if l == Default {
		return path
	}
	return "/" + string(l) + "/" + strings.TrimLeft(path, "/")
}

// PrefixedPath returns path under the /{locale} prefix for every locale,
// the default one included. Links between pages served under /{locale} use
// it so they never pass through the redirect policy.
func PrefixedPath(path string, l Locale) string {
	return "/" + string(l) + "/" + strings.TrimLeft(path, "/")
}

// Alternate is a link to the same page in another locale.
type Alternate struct {
	Locale Locale `json:"locale"`
	Href   string `json:"href"`
}

// AlternateLanguages lists the current page in every supported locale.
func AlternateLanguages(currentPath string) []Alternate {
	return alternates(currentPath, LocalizedPath)
}

// PrefixedAlternates is AlternateLanguages with every href under its
// /{locale} prefix.
func PrefixedAlternates(currentPath string) []Alternate {
	return alternates(currentPath, PrefixedPath)
}

func alternates(currentPath string, href func(string, Locale) string) []Alternate {
	_, bare := FromPath(currentPath)
	if bare == "" {
		bare = "/"
	}
	out := make([]Alternate, 0, len(supported))
	for _, l := range supported {
		out = append(out, Alternate{Locale: l, Href: href(bare, l)})
	}
	return out
}

func splitSegments(pathname string) []string {
	return strings.FieldsFunc(pathname, func(r rune) bool { return r == '/' })
}
