package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-bulletin/internal/app"
	"github.com/samvad-hq/samvad-bulletin/internal/config"
	"github.com/samvad-hq/samvad-bulletin/internal/logger"
	"github.com/spf13/cobra"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single harvest pass and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withHarvester(cmd.Context(), func(ctx context.Context, h *app.Harvester) error {
			return h.RunOnce(ctx)
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Harvest on the configured interval until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return withHarvester(ctx, func(ctx context.Context, h *app.Harvester) error {
			return h.Run(ctx)
		})
	},
}

func withHarvester(ctx context.Context, fn func(context.Context, *app.Harvester) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadFrom(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("bulletin starting", "config", cfg)

	h, err := app.NewHarvester(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize harvester", "error", err)
		return err
	}
	defer func() {
		if cerr := h.Close(); cerr != nil {
			logger.ErrorObj("harvester close failed", "error", cerr)
		}
	}()

	return fn(ctx, h)
}
