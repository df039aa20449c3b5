package i18n

import (
	"context"
	"path"
	"strings"
)

// Parser turns the content of a translation file into a map keyed by language.
type Parser interface {
	Parse(ctx context.Context, content string) (map[string]map[string]any, error)

	// SupportsFileExtension accepts extensions with or without the leading dot.
	SupportsFileExtension(ext string) bool
}

// NewParserForFile returns a parser for the file's extension, or nil.
func NewParserForFile(filename string) Parser {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "yaml", "yml":
		return NewYAMLParser()
	default:
		return nil
	}
}
