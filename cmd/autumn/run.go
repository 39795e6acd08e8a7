package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leeforge/autumn/runtime"
	"github.com/spf13/cobra"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the application and run it until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := flags.newRuntime(
				runtime.WithConfigWatch(watch),
				runtime.WithBannerOutput(cmd.OutOrStdout()),
			)
			if err != nil {
				return err
			}
			_, err = rt.Run(ctx)
			return err
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "log configuration file changes (dev only)")
	return cmd
}
