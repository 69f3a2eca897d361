package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xpanvictor/voicewithin/internal/config"
	"github.com/xpanvictor/voicewithin/internal/version"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "voicewithin",
		Short:         "Hotkey voice notes: record, transcribe, summarize, append to today's markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default searches $XDG_CONFIG_HOME/voicewithin, ~/.config/voicewithin, .)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "development logging")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newDoctorCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (o *rootOptions) load() (*config.Settings, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Settings) *Logger.Logger {
	return Logger.BuildLogger(Logger.Options{
		Debug:      cfg.Debug,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
}
