package main

import (
	"fmt"

	"github.com/leeforge/autumn/logging"
	"github.com/leeforge/autumn/runtime"
	"github.com/spf13/cobra"
)

func newComponentsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "Build the application and list its components and plugin order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.newRuntime(
				runtime.WithBanner(false),
				runtime.WithLogger(logging.Nop()),
			)
			if err != nil {
				return err
			}
			app, err := rt.Build(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "plugins:")
			for _, name := range rt.BuildOrder() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintln(out, "components:")
			for _, name := range app.Components().Names() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
}
