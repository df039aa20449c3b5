package locale

import (
	"strconv"
	"strings"
)

// maxAcceptLanguageLength bounds the header we are willing to scan.
const maxAcceptLanguageLength = 4096

// ParseAcceptLanguage returns the language ranges of an Accept-Language header
// in the order the client listed them, lowercased and without quality
// parameters. Ranges with q=0 are dropped as explicitly unacceptable.
func ParseAcceptLanguage(header string) []string {
	if header == "" {
		return nil
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	var out []string
	for part := range strings.SplitSeq(header, ",") {
		lang, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" || lang == "*" {
			continue
		}
		if q, ok := quality(params); ok && q == 0 {
			continue
		}
		out = append(out, lang)
	}
	return out
}

func quality(params string) (float64, bool) {
	for p := range strings.SplitSeq(params, ";") {
		p = strings.TrimSpace(p)
		if v, ok := strings.CutPrefix(p, "q="); ok {
			q, err := strconv.ParseFloat(v, 64)
			if err != nil || q < 0 || q > 1 {
				return 0, false
			}
			return q, true
		}
	}
	return 0, false
}

// MatchAcceptLanguage returns the first supported locale whose code equals the
// primary subtag of a listed language range.
func MatchAcceptLanguage(header string) (Locale, bool) {
	for _, lang := range ParseAcceptLanguage(header) {
		if l, ok := primary(lang); ok {
			return l, true
		}
	}
	return "", false
}
