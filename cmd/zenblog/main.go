package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/zenblog/internal/app"
	"github.com/dmitrymomot/zenblog/internal/config"
	"github.com/dmitrymomot/zenblog/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(logger.RequestIDExtractor(), logger.LocaleExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize", logger.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		a.Close()
		os.Exit(1)
	}
}
