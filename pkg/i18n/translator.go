package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrymomot/zenblog/pkg/locale"
)

// Translator resolves dot-separated keys against translations loaded once
// from a TranslationAdapter. It is safe for concurrent use.
type Translator struct {
	translations  map[string]map[string]any
	defaultLang   string
	fallbackToKey bool
	warnMissing   bool
	logger        *slog.Logger
}

// NewTranslator loads translations through adapter and applies options.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, options ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang:   locale.Default.String(),
		fallbackToKey: true,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(t)
	}

	translations, err := adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	for lang, m := range translations {
		if lang == "" || m == nil {
			return nil, errors.Join(ErrInvalidTranslations, fmt.Errorf("language %q", lang))
		}
	}

	t.translations = translations
	t.logger.InfoContext(ctx, "translations loaded", "languages", t.SupportedLanguages())
	return t, nil
}

// SupportedLanguages returns the sorted language codes with translations.
func (t *Translator) SupportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// DefaultLanguage returns the fallback language.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// HasTranslation checks if a translation exists for the given language and key.
// The default language is not consulted.
func (t *Translator) HasTranslation(lang, key string) bool {
	langMap, ok := t.translations[lang]
	if !ok {
		return false
	}
	_, ok = lookup(langMap, key)
	return ok
}

// T translates key for lang, substituting %{name} placeholders from args
// given as name, value pairs.
//
// A language without translations, or without the key, falls back to the
// default language. When that fails too, the key itself is returned
// (or "" with WithFallbackToKey(false)).
//
//	// With "welcome": "Hello, %{name}!"
//	msg := translator.T("en", "welcome", "name", "John") // "Hello, John!"
func (t *Translator) T(lang, key string, args ...string) string {
	if s, ok := t.resolve(lang, key); ok {
		return sprintf(s, args)
	}
	return t.missing(lang, key, args)
}

// Td translates key in the default language.
func (t *Translator) Td(key string, args ...string) string {
	return t.T(t.defaultLang, key, args...)
}

// Tc translates key in the locale carried by ctx.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(locale.FromContext(ctx).String(), key, args...)
}

// N translates key with a plural form chosen by n:
// key.zero (then key.other) for 0, key.one for 1, key.other otherwise,
// and key itself last. Every form is tried in lang before the default
// language is consulted. %{count} is filled with n unless args set it.
//
//	// "posts.one": "%{count} post", "posts.other": "%{count} posts"
//	translator.N("en", "posts", 5) // "5 posts"
func (t *Translator) N(lang, key string, n int, args ...string) string {
	var forms []string
	switch n {
	case 0:
		forms = []string{key + ".zero", key + ".other"}
	case 1:
		forms = []string{key + ".one"}
	default:
		forms = []string{key + ".other"}
	}
	forms = append(forms, key)

	if !hasParam(args, "count") {
		args = append(args[:len(args):len(args)], "count", strconv.Itoa(n))
	}
	for _, k := range forms {
		if s, ok := t.lookupIn(lang, k); ok {
			return sprintf(s, args)
		}
	}
	if lang != t.defaultLang {
		for _, k := range forms {
			if s, ok := t.lookupIn(t.defaultLang, k); ok {
				if t.warnMissing {
					t.logger.Warn("translation served from default language", "lang", lang, "key", key)
				}
				return sprintf(s, args)
			}
		}
	}
	return t.missing(lang, key, args)
}

// Nc is N with the locale carried by ctx.
func (t *Translator) Nc(ctx context.Context, key string, n int, args ...string) string {
	return t.N(locale.FromContext(ctx).String(), key, n, args...)
}

// ExportJSON returns the full translation tree of lang as JSON, or the
// default language's tree when lang has none. Used by client bundles.
func (t *Translator) ExportJSON(lang string) ([]byte, error) {
	m, ok := t.translations[lang]
	if !ok {
		m = t.translations[t.defaultLang]
	}
	if m == nil {
		m = map[string]any{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Join(ErrFailedToMarshalJSON, err)
	}
	return data, nil
}

func (t *Translator) resolve(lang, key string) (string, bool) {
	if s, ok := t.lookupIn(lang, key); ok {
		return s, true
	}
	if lang == t.defaultLang {
		return "", false
	}
	if s, ok := t.lookupIn(t.defaultLang, key); ok {
		if t.warnMissing {
			t.logger.Warn("translation served from default language", "lang", lang, "key", key)
		}
		return s, true
	}
	return "", false
}

// lookupIn resolves key in lang only.
func (t *Translator) lookupIn(lang, key string) (string, bool) {
	m, ok := t.translations[lang]
	if !ok {
		return "", false
	}
	return stringValue(lookup(m, key))
}

func (t *Translator) missing(lang, key string, args []string) string {
	if t.warnMissing {
		t.logger.Warn("translation not found", "lang", lang, "key", key)
	}
	if t.fallbackToKey {
		return sprintf(key, args)
	}
	return ""
}

// lookup traverses a nested map using dot-separated keys.
func lookup(m map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	current := m
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		switch next := val.(type) {
		case map[string]any:
			current = next
		case map[any]any:
			current = make(map[string]any, len(next))
			for k, v := range next {
				if ks, ok := k.(string); ok {
					current[ks] = v
				}
			}
		default:
			return nil, false
		}
	}
	return nil, false
}

func stringValue(val any, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	switch v := val.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case int, int64, float64, bool:
		return fmt.Sprint(v), true
	}
	return "", false
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// sprintf replaces %{name} placeholders; unknown names are left intact.
func sprintf(tmpl string, args []string) string {
	if len(args) < 2 {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		params[args[i]] = args[i+1]
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}

func hasParam(args []string, name string) bool {
	for i := 0; i < len(args)-1; i += 2 {
		if args[i] == name {
			return true
		}
	}
	return false
}
