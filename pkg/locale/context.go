package locale

import "context"

type localeContextKey struct{}

// WithLocale stores l in the context.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, localeContextKey{}, l)
}

// FromContext returns the locale stored by WithLocale, or Default.
func FromContext(ctx context.Context) Locale {
	if l, ok := Lookup(ctx); ok {
		return l
	}
	return Default
}

// Lookup returns the supported locale stored in ctx, if any.
func Lookup(ctx context.Context) (Locale, bool) {
	l, ok := ctx.Value(localeContextKey{}).(Locale)
	return l, ok && l.Supported()
}
