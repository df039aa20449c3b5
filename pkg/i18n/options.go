package i18n

import (
	"log/slog"

	"github.com/dmitrymomot/zenblog/pkg/locale"
)

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the language consulted when a key is missing in
// the requested one. Codes outside the supported locale set are ignored.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if l, ok := locale.Parse(lang); ok {
			t.defaultLang = l.String()
		}
	}
}

// WithFallbackToKey controls whether an unresolved key renders as itself.
// Enabled by default.
func WithFallbackToKey(fallback bool) Option {
	return func(t *Translator) { t.fallbackToKey = fallback }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMissingKeyWarnings logs a warning each time a key falls back to the
// default language or to itself.
func WithMissingKeyWarnings() Option {
	return func(t *Translator) { t.warnMissing = true }
}

// WithNoLogging silences the translator.
func WithNoLogging() Option {
	return func(t *Translator) {
		t.logger = slog.New(slog.DiscardHandler)
		t.warnMissing = false
	}
}
