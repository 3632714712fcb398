package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/benx421/payment-gateway/cardform/internal/cardform"
	"github.com/benx421/payment-gateway/cardform/internal/config"
	"github.com/benx421/payment-gateway/cardform/internal/layout"
	"github.com/benx421/payment-gateway/cardform/internal/tui"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		slog.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting card form",
		"timezone", cfg.Form.Timezone,
		"validate_on_change", cfg.Form.ValidateOnChange,
		"max_submits", cfg.Form.MaxSubmits,
		"log_level", cfg.Logger.Level,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lay, err := loadLayout(ctx, cfg.Form.LayoutPath)
	if err != nil {
		logger.Error("failed to load form layout", "path", cfg.Form.LayoutPath, "error", err)
		os.Exit(1)
	}

	form := cardform.NewForm(
		cardform.WithClock(cfg.Form.Clock()),
		cardform.WithMasks(lay.Masks()),
	)
	session := tui.NewSession(
		tui.NewSurveyDriver(os.Stdin, os.Stdout, os.Stderr),
		lay,
		form,
		tui.WithLogger(logger),
		tui.WithValidateOnChange(cfg.Form.ValidateOnChange),
		tui.WithMaxSubmits(cfg.Form.MaxSubmits),
	)

	confirmation, err := session.Run(ctx)
	switch {
	case errors.Is(err, tui.ErrAborted), errors.Is(err, context.Canceled):
		logger.Info("card form aborted")
		os.Exit(130)
	case err != nil:
		logger.Error("card form failed", "error", err)
		os.Exit(1)
	}

	logger.Info("card form closed", "reference", confirmation.Reference)
}

func loadLayout(ctx context.Context, path string) (layout.Layout, error) {
	if path == "" {
		return layout.Default(ctx)
	}
	return layout.Load(ctx, path)
}
