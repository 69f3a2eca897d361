package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xpanvictor/voicewithin/internal/app"
	"github.com/xpanvictor/voicewithin/internal/config"
	"github.com/xpanvictor/voicewithin/pkg/io/device/microphone"
	"github.com/xpanvictor/voicewithin/pkg/io/trigger"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the daemon and toggle recording on every trigger",
		Long: `Start the daemon. Each trigger starts or stops a recording.

With hotkey.source=signal, bind your desktop hotkey (CommandOrControl+I by
default) to:

    pkill -USR1 voicewithin

With hotkey.source=stdin, press Enter in this terminal instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if source != "" {
				cfg.Hotkey.Source = source
			}

			logger := newLogger(cfg)
			defer logger.Sync()
			logger.Info("Logger initialized")

			cfg.OnChange(func(next *config.Settings) {
				if err := logger.SetLevel(next.Log.Level); err != nil {
					logger.Warnf("config reload: %v", err)
					return
				}
				logger.Infow("config reloaded", "log.level", logger.Level())
			}, func(err error) {
				logger.Warnf("config reload rejected, keeping previous settings: %v", err)
			})

			application, err := app.NewApp(cfg, logger, microphone.New())
			if err != nil {
				return fmt.Errorf("initializing app: %w", err)
			}

			src, err := trigger.New(cfg.Hotkey.Source, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := application.Run(ctx, src); err != nil {
				return err
			}
			logger.Info("Shutdown system")
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "trigger", "", "override hotkey.source (signal or stdin)")
	return cmd
}
