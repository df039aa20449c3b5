package i18n

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/zenblog/pkg/locale"
)

// RelativeTime renders the distance from t to now as "N unit ago", using
// the largest unit among seconds, minutes, hours, days, weeks, months and
// years that keeps N meaningful. Months count 30 days; weeks stop at four.
// Times in the future render as "in N unit".
func (t *Translator) RelativeTime(lang string, when, now time.Time) string {
	d := now.Sub(when)
	future := d < 0
	if future {
		d = -d
	}

	seconds := int(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	weeks := days / 7
	months := days / 30

	var n int
	var unit string
	switch {
	case seconds < 60:
		n, unit = seconds, "seconds"
	case minutes < 60:
		n, unit = minutes, "minutes"
	case hours < 24:
		n, unit = hours, "hours"
	case days < 7:
		n, unit = days, "days"
	case weeks < 4:
		n, unit = weeks, "weeks"
	case months < 12:
		n, unit = months, "months"
	default:
		n, unit = days/365, "years"
	}

	parts := []string{strconv.Itoa(n), t.T(lang, "time."+unit)}
	if future {
		return t.T(lang, "time.in") + " " + strings.Join(parts, " ")
	}
	return strings.Join(append(parts, t.T(lang, "time.ago")), " ")
}

// RelativeTimeContext is RelativeTime in the locale carried by ctx.
func (t *Translator) RelativeTimeContext(ctx context.Context, when, now time.Time) string {
	return t.RelativeTime(locale.FromContext(ctx).String(), when, now)
}

// ReadingTime renders an estimated reading time such as "4 minutes".
func (t *Translator) ReadingTime(lang string, minutes int) string {
	return strconv.Itoa(minutes) + " " + t.T(lang, "blog.minutes")
}
