package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xpanvictor/voicewithin/internal/app"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
	"github.com/xpanvictor/voicewithin/pkg/executor"
	"github.com/xpanvictor/voicewithin/pkg/io/device/microphone"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			checks := app.NewDoctor(cfg, executor.New(), microphone.Probe, Logger.Nop()).Run(cmd.Context())
			printChecks(cmd.OutOrStdout(), checks)
			if !app.Healthy(checks) {
				return fmt.Errorf("some prerequisites are missing")
			}
			return nil
		},
	}
}

func printChecks(w io.Writer, checks []app.Check) {
	for _, c := range checks {
		mark := "ok  "
		if !c.OK {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", mark, c.Name, c.Detail)
	}
	if app.Healthy(checks) {
		fmt.Fprintln(w, "\nAll prerequisites met. Ready to record!")
	}
}
