package main

import (
	"fmt"

	"github.com/leeforge/autumn/config"
	"github.com/leeforge/autumn/json"
	"github.com/leeforge/autumn/logging"
	"github.com/spf13/cobra"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []config.Option{config.WithLogger(logging.Nop())}
			if flags.envPrefix != "" {
				opts = append(opts, config.WithEnvPrefix(flags.envPrefix))
			}
			store, err := config.Load(flags.configPath, flags.resolveEnv(), opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if prefix == "" {
				return store.ExportJSON(out)
			}
			if !store.Has(prefix) {
				return fmt.Errorf("section %q not found", prefix)
			}
			data, err := json.MarshalIndent(store.Get(prefix), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "print only the value under this dotted key")
	return cmd
}
