package locale

import (
	"slices"

	"golang.org/x/text/language"
)

// Locale is a supported language code.
type Locale string

const (
	English  Locale = "en"
	Spanish  Locale = "es"
	French   Locale = "fr"
	German   Locale = "de"
	Japanese Locale = "ja"
	Arabic   Locale = "ar"
	Chinese  Locale = "zh"
)

// Default is the locale used when nothing else matches.
const Default = English

var supported = []Locale{English, Spanish, French, German, Japanese, Arabic, Chinese}

// All returns the supported locales in display order.
func All() []Locale {
	return slices.Clone(supported)
}

// Fonts names the font families a locale renders with.
type Fonts struct {
	Serif string `json:"serif"`
	Sans  string `json:"sans"`
}

// Info is the static configuration of a locale.
type Info struct {
	Code Locale       `json:"code"`
	Name string       `json:"name"`
	Flag string       `json:"flag"`
	Tag  language.Tag `json:"tag"`
	RTL  bool         `json:"rtl"`
	Font Fonts        `json:"font"`
}

var (
	latinFonts = Fonts{Serif: "var(--font-serif)", Sans: "var(--font-sans)"}

	infos = map[Locale]Info{
		English:  {Code: English, Name: "English", Flag: "🇺🇸", Tag: language.MustParse("en-US"), Font: latinFonts},
		Spanish:  {Code: Spanish, Name: "Español", Flag: "🇪🇸", Tag: language.MustParse("es-ES"), Font: latinFonts},
		French:   {Code: French, Name: "Français", Flag: "🇫🇷", Tag: language.MustParse("fr-FR"), Font: latinFonts},
		German:   {Code: German, Name: "Deutsch", Flag: "🇩🇪", Tag: language.MustParse("de-DE"), Font: latinFonts},
		Japanese: {Code: Japanese, Name: "日本語", Flag: "🇯🇵", Tag: language.MustParse("ja-JP"), Font: Fonts{Serif: "var(--font-japanese)", Sans: "var(--font-japanese)"}},
		Arabic:   {Code: Arabic, Name: "العربية", Flag: "🇸🇦", Tag: language.MustParse("ar-SA"), RTL: true, Font: Fonts{Serif: "var(--font-arabic)", Sans: "var(--font-arabic)"}},
		Chinese:  {Code: Chinese, Name: "中文", Flag: "🇨🇳", Tag: language.MustParse("zh-CN"), Font: Fonts{Serif: "var(--font-chinese)", Sans: "var(--font-chinese)"}},
	}
)

// Parse reports whether s is a supported locale code. Matching is exact.
func Parse(s string) (Locale, bool) {
	l := Locale(s)
	if _, ok := infos[l]; ok {
		return l, true
	}
	return "", false
}

// Validate returns candidate when it is supported and Default otherwise.
func Validate(candidate string) Locale {
	if l, ok := Parse(candidate); ok {
		return l
	}
	return Default
}

// Supported reports whether l is a supported locale.
func (l Locale) Supported() bool {
	_, ok := infos[l]
	return ok
}

// Info returns the configuration of l, falling back to Default.
func (l Locale) Info() Info {
	if info, ok := infos[l]; ok {
		return info
	}
	return infos[Default]
}

// Tag returns the BCP 47 tag used for date and number formatting.
func (l Locale) Tag() language.Tag {
	return l.Info().Tag
}

// IsRTL reports whether l is written right to left.
func IsRTL(l Locale) bool {
	return infos[l].RTL
}

// Direction returns "rtl" or "ltr" for l.
func Direction(l Locale) string {
	if IsRTL(l) {
		return "rtl"
	}
	return "ltr"
}

func (l Locale) String() string { return string(l) }
