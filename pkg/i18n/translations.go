package i18n

import (
	"context"
	"embed"
)

//go:embed translations/*.yaml
var translationsFS embed.FS

// Default loads the bundled translations for every supported locale.
func Default(ctx context.Context, options ...Option) (*Translator, error) {
	return NewTranslator(ctx, NewFSAdapter(translationsFS, "translations"), options...)
}
