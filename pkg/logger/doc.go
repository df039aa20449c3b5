// Package logger builds log/slog loggers for the blog services.
//
// New returns a JSON logger at info level by default. WithEnvironment
// switches to text output at debug level for development. Context
// extractors add request-scoped attributes such as the chi request id and
// the resolved locale on every *Context logging call:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "zenblog"),
//		logger.WithContextExtractors(logger.RequestIDExtractor(), logger.LocaleExtractor()),
//	)
//	log.InfoContext(ctx, "post served", logger.Slug(slug), logger.Tier("pro"))
//
// Attribute helpers keep key names consistent across packages.
package logger
