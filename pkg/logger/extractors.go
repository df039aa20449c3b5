package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/zenblog/pkg/locale"
)

// RequestIDExtractor logs the id set by chi's RequestID middleware.
func RequestIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := middleware.GetReqID(ctx); id != "" {
			return RequestID(id), true
		}
		return slog.Attr{}, false
	}
}

// LocaleExtractor logs the locale resolved for the request.
func LocaleExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if l, ok := locale.Lookup(ctx); ok {
			return Locale(l.String()), true
		}
		return slog.Attr{}, false
	}
}
