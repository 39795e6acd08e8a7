package runtime

import (
	"context"

	"github.com/leeforge/autumn/logging"
	"github.com/leeforge/autumn/plugin"
)

// LogPluginName is the name of the built-in logging plugin.
const LogPluginName = "logger"

// logPlugin decodes the [logger] section and, unless the runtime was handed a
// logger, builds the application logger from it.
type logPlugin struct {
	keep bool
}

func (p *logPlugin) Name() string    { return LogPluginName }
func (p *logPlugin) Immediate() bool { return true }

func (p *logPlugin) Build(_ context.Context, b *plugin.Builder) error {
	cfg, err := plugin.AddConfig[logging.Config](b)
	if err != nil {
		return err
	}
	if p.keep {
		return nil
	}

	logger := logging.NewLogger(cfg)
	logging.SetGlobal(logger)
	b.SetLogger(logger)

	b.AddShutdownHook("logger.flush", func(context.Context, *plugin.App) (string, error) {
		_ = logger.Sync()
		return "logs flushed", logging.CloseAllWriters()
	})
	return nil
}
