package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var monthNames = map[Locale][12]string{
	English:  {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	Spanish:  {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	French:   {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	German:   {"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	Arabic:   {"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو", "يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"},
}

// FormatDate renders t as a long date (year, month name, day) in l.
func FormatDate(t time.Time, l Locale) string {
	l = Validate(string(l))
	y, m, d := t.Date()
	name := monthNames[l][m-1]

	switch l {
	case Spanish:
		return fmt.Sprintf("%d de %s de %d", d, name, y)
	case French:
		return fmt.Sprintf("%d %s %d", d, name, y)
	case German:
		return fmt.Sprintf("%d. %s %d", d, name, y)
	case Japanese, Chinese:
		return fmt.Sprintf("%d年%d月%d日", y, int(m), d)
	case Arabic:
		return fmt.Sprintf("%d %s %d", d, name, y)
	}
	return fmt.Sprintf("%s %d, %d", name, d, y)
}

// FormatNumber renders n with the grouping and decimal separators of l.
func FormatNumber(n float64, l Locale) string {
	return message.NewPrinter(l.Tag()).Sprint(number.Decimal(n))
}

// FormatCurrency renders amount (in major units) in the given ISO 4217 currency.
// Unknown currency codes fall back to USD.
func FormatCurrency(amount float64, l Locale, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	return message.NewPrinter(l.Tag()).Sprint(currency.Symbol(unit.Amount(amount)))
}

// Pluralize picks singular for a count of exactly one.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
