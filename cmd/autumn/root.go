package main

import (
	"github.com/leeforge/autumn/config"
	"github.com/leeforge/autumn/env_mode"
	"github.com/leeforge/autumn/redis_client"
	"github.com/leeforge/autumn/runtime"
	"github.com/leeforge/autumn/web"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	env        string
	envPrefix  string
	redis      bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "autumn",
		Short: "Plugin-based application runtime",
		Long: `autumn builds an application from plugins: it loads layered TOML
configuration, builds plugins in dependency order and runs their schedulers.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", config.DefaultPath, "base configuration file")
	pf.StringVarP(&flags.env, "env", "e", "", "environment (dev, test, prod); defaults to "+env_mode.EnvKey)
	pf.StringVar(&flags.envPrefix, "env-prefix", "", "environment variable prefix for configuration overrides")
	pf.BoolVar(&flags.redis, "redis", false, "enable the redis plugin")

	cmd.AddCommand(
		newRunCmd(flags),
		newConfigCmd(flags),
		newComponentsCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

func (f *globalFlags) resolveEnv() env_mode.Env {
	if f.env == "" {
		return env_mode.Init()
	}
	return env_mode.ParseEnv(f.env)
}

// newRuntime creates a runtime with the web plugin and, when requested, the
// redis plugin registered.
func (f *globalFlags) newRuntime(extra ...runtime.Option) (*runtime.Runtime, error) {
	opts := []runtime.Option{
		runtime.WithConfigFile(f.configPath),
		runtime.WithEnv(f.resolveEnv()),
	}
	if f.envPrefix != "" {
		opts = append(opts, runtime.WithEnvPrefix(f.envPrefix))
	}
	rt := runtime.New(append(opts, extra...)...)

	if err := rt.Register(&web.WebPlugin{}); err != nil {
		return nil, err
	}
	if f.redis {
		if err := rt.Register(&redis_client.RedisPlugin{}); err != nil {
			return nil, err
		}
	}
	return rt, nil
}
