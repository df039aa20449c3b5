package content

import (
	"strings"
	"unicode"
)

// WordsPerMinute is the reading speed used by ReadingMinutes.
const WordsPerMinute = 200

// Excerpt returns the first n non-blank lines of a markdown body.
func Excerpt(body string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := make([]string, 0, n)
	for line := range strings.Lines(body) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r\n"))
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// ReadingMinutes estimates reading time, rounded up, at least one minute.
func ReadingMinutes(body string) int {
	words := len(strings.FieldsFunc(body, unicode.IsSpace))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return max(minutes, 1)
}
