package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leeforge/autumn/component"
	"github.com/leeforge/autumn/config"
	"github.com/leeforge/autumn/env_mode"
	apperrors "github.com/leeforge/autumn/errors"
	"github.com/leeforge/autumn/logging"
	"github.com/leeforge/autumn/metrics"
	"github.com/leeforge/autumn/plugin"
	"go.uber.org/zap"
)

// Runtime manages the application lifecycle: it loads configuration, builds
// plugins in dependency order, freezes the result into an App and runs the
// queued schedulers and shutdown hooks against it.
type Runtime struct {
	opts    options
	logger  logging.Logger
	builder *plugin.Builder
	health  *plugin.HealthChecks
	metrics *metrics.Collector

	plugins      map[string]plugin.Plugin
	registered   []string
	immediate    []string
	pluginState  map[string]plugin.PluginState
	pluginErrors map[string]error
	mu           sync.RWMutex

	lifecycle  sync.Mutex
	started    bool
	buildOrder []string
	app        atomic.Pointer[plugin.App]
	buildErr   error
}

// New creates a runtime with the built-in logging plugin registered.
func New(opts ...Option) *Runtime {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasEnv {
		o.env = env_mode.Init()
	}

	logger := o.logger
	if logger == nil {
		logger = logging.Global()
	}

	r := &Runtime{
		opts:         o,
		logger:       logger.Named("runtime"),
		builder:      plugin.NewBuilder(o.env, logger),
		health:       plugin.NewHealthChecks(),
		metrics:      metrics.NewCollector(),
		plugins:      make(map[string]plugin.Plugin),
		pluginState:  make(map[string]plugin.PluginState),
		pluginErrors: make(map[string]error),
	}
	r.builder.Components().MustRegister(r.health)
	r.builder.Components().MustRegister(r.metrics)

	if err := r.Register(&logPlugin{keep: o.logger != nil}); err != nil {
		panic(err)
	}
	return r
}

// Env returns the resolved environment.
func (r *Runtime) Env() env_mode.Env {
	return r.opts.env
}

// Components returns the registry for pre-registering core components.
// Must be called before Build.
func (r *Runtime) Components() *component.Registry {
	return r.builder.Components()
}

// AddScheduler queues a scheduler ahead of any queued by plugins.
// Must be called before Build.
func (r *Runtime) AddScheduler(name string, s plugin.Scheduler) {
	r.builder.AddScheduler(name, s)
}

// AddShutdownHook queues a shutdown hook. Must be called before Build.
func (r *Runtime) AddShutdownHook(name string, s plugin.Scheduler) {
	r.builder.AddShutdownHook(name, s)
}

// AddService queues a service of type *T whose tagged fields are filled once
// every plugin has built. Must be called before Build.
func AddService[T any](r *Runtime) {
	plugin.AddService[T](r.builder)
}

// Register adds a plugin. Must be called before Build.
func (r *Runtime) Register(p plugin.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := plugin.NameOf(p)
	if r.started {
		return apperrors.New(apperrors.ErrorTypeFrozen,
			fmt.Sprintf("plugin %q registered after build started", name))
	}
	if _, exists := r.plugins[name]; exists {
		return apperrors.New(apperrors.ErrorTypeDuplicate,
			fmt.Sprintf("plugin %q already registered", name))
	}

	immediate := plugin.IsImmediate(p)
	if deps := plugin.DependenciesOf(p); immediate && len(deps) > 0 {
		return apperrors.New(apperrors.ErrorTypeDependency,
			fmt.Sprintf("immediate plugin %q cannot declare dependencies", name)).
			WithDetail("dependencies", deps)
	}

	r.plugins[name] = p
	r.registered = append(r.registered, name)
	if immediate {
		r.immediate = append(r.immediate, name)
	}
	r.pluginState[name] = plugin.StateRegistered
	r.logger.Debug("plugin added", zap.String("plugin", name), zap.Bool("immediate", immediate))
	return nil
}

// Build loads configuration, builds every plugin and freezes the result. It
// runs once; later calls return the first outcome.
func (r *Runtime) Build(ctx context.Context) (*plugin.App, error) {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	if app := r.app.Load(); app != nil || r.buildErr != nil {
		return app, r.buildErr
	}

	r.mu.Lock()
	r.started = true
	r.mu.Unlock()

	app, err := r.build(ctx)
	if err != nil {
		r.buildErr = err
		r.logger.Error("application build failed", zap.Error(err))
		return nil, err
	}
	r.app.Store(app)
	return app, nil
}

func (r *Runtime) build(ctx context.Context) (*plugin.App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	if r.opts.banner {
		printBanner(r.opts.bannerOut, r.opts.env)
	}

	// Phase 1: Configuration
	store, err := r.loadConfig()
	if err != nil {
		return nil, fatal(err, "load configuration")
	}
	r.builder.SetConfig(store)
	if err := r.builder.AddComponent(store); err != nil {
		return nil, fatal(err, "register configuration")
	}

	// Phase 2: Immediate plugins, logging first
	for _, name := range r.immediate {
		if err := r.buildPlugin(ctx, name); err != nil {
			return nil, err
		}
		r.logger = r.builder.Logger().Named("runtime")
	}

	// Phase 3: Resolve dependencies
	ordered := make([]string, 0, len(r.registered)-len(r.immediate))
	deps := make(map[string][]string, len(r.registered))
	for _, name := range r.registered {
		if plugin.IsImmediate(r.plugins[name]) {
			continue
		}
		ordered = append(ordered, name)
		deps[name] = plugin.DependenciesOf(r.plugins[name])
	}
	order, err := resolveOrder(ordered, deps, r.immediate)
	if err != nil {
		r.markFailed(ordered, err)
		return nil, fatal(err, "dependency resolution failed")
	}
	r.logger.Info("dependency resolution completed", zap.Strings("order", order))

	// Phase 4: Build in order, one at a time
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.WrapWithType(err, apperrors.ErrorTypeCanceled, "build canceled")
		}
		if err := r.buildPlugin(ctx, name); err != nil {
			return nil, err
		}
	}

	// Phase 5: Services, filled from every plugin's components
	err = r.builder.InjectServices()
	if componentErr := r.builder.TakeError(); err == nil {
		err = componentErr
	}
	if err != nil {
		return nil, fatal(err, "service injection failed")
	}

	// Phase 6: Resolve lazy references now that every component exists
	if err := r.builder.Components().ResolvePending(); err != nil {
		return nil, fatal(err, "unresolved lazy components")
	}

	app := plugin.Freeze(r.builder)
	r.logger.Info("application built",
		zap.String("id", app.ID().String()),
		zap.String("env", app.Env().String()),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("plugins", len(r.registered)),
		zap.Int("components", app.Components().Len()),
	)
	return app, nil
}

func (r *Runtime) loadConfig() (*config.Store, error) {
	opts := []config.Option{config.WithLogger(r.logger)}
	if r.opts.envPrefix != "" {
		opts = append(opts, config.WithEnvPrefix(r.opts.envPrefix))
	}
	if r.opts.hasString {
		return config.FromString(r.opts.configString, opts...)
	}
	return config.Load(r.opts.configPath, r.opts.env, opts...)
}

func (r *Runtime) buildPlugin(ctx context.Context, name string) error {
	r.mu.Lock()
	p := r.plugins[name]
	r.pluginState[name] = plugin.StateBuilding
	r.buildOrder = append(r.buildOrder, name)
	r.mu.Unlock()

	startTime := time.Now()
	r.logger.Debug("building plugin", zap.String("plugin", name))

	r.builder.TakeError()
	err := apperrors.Recover(func() error {
		return p.Build(ctx, r.builder)
	})
	if componentErr := r.builder.TakeError(); err == nil {
		err = componentErr
	}
	r.metrics.RecordBuild(name, err, time.Since(startTime))
	if err != nil {
		r.mu.Lock()
		r.pluginState[name] = plugin.StateFailed
		r.pluginErrors[name] = err
		r.mu.Unlock()
		return fatal(err, fmt.Sprintf("plugin %q build failed", name))
	}

	if h, ok := p.(plugin.HealthReporter); ok {
		r.health.Add(name, h.HealthCheck)
	}

	r.mu.Lock()
	r.pluginState[name] = plugin.StateBuilt
	r.mu.Unlock()
	r.logger.Info("plugin built", zap.String("plugin", name), zap.Duration("duration", time.Since(startTime)))
	return nil
}

func (r *Runtime) markFailed(names []string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.pluginState[name] = plugin.StateFailed
		r.pluginErrors[name] = err
	}
}

// Run builds the application, installs its registry as the global one, then
// runs every scheduler to completion in registration order followed by every
// shutdown hook in reverse registration order. A failing task is logged and
// does not stop the ones after it.
func (r *Runtime) Run(ctx context.Context) (*plugin.App, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := r.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := component.SetGlobal(app.Components()); err != nil {
		r.logger.Warn("global component registry already installed", zap.Error(err))
	}
	if err := app.Advance(plugin.AppRunning); err != nil {
		return app, err
	}

	if r.opts.watchConfig && app.Env() == env_mode.Dev {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go r.watchConfig(watchCtx, app)
	}

	r.drain(ctx, app, r.builder.Schedulers(), "scheduler")
	r.drain(context.WithoutCancel(ctx), app, r.builder.ShutdownHooks(), "shutdown hook")

	if err := app.Advance(plugin.AppTerminal); err != nil {
		return app, err
	}
	r.logger.Info("application terminated", zap.String("id", app.ID().String()))
	return app, nil
}

func (r *Runtime) drain(ctx context.Context, app *plugin.App, queue *plugin.TaskQueue, kind string) {
	for task, ok := queue.Pop(); ok; task, ok = queue.Pop() {
		r.runTask(ctx, app, task, kind)
	}
}

func (r *Runtime) runTask(ctx context.Context, app *plugin.App, task plugin.Task, kind string) {
	startTime := time.Now()
	var msg string
	err := apperrors.Recover(func() error {
		if task.Run == nil {
			return fmt.Errorf("%s %q has no function", kind, task.Name)
		}
		var runErr error
		msg, runErr = task.Run(ctx, app)
		return runErr
	})

	r.metrics.RecordTask(kind, task.Name, err, time.Since(startTime))

	fields := []zap.Field{
		zap.String("kind", kind),
		zap.String("task", task.Name),
		zap.Duration("duration", time.Since(startTime)),
	}
	if err != nil {
		r.logger.Error("task failed", append(fields, zap.Error(apperrors.WrapWithType(err, apperrors.ErrorTypeScheduler, task.Name)))...)
		return
	}
	r.logger.Info("task finished", append(fields, zap.String("result", msg))...)
}

func (r *Runtime) watchConfig(ctx context.Context, app *plugin.App) {
	err := app.Config().Watch(ctx, func(path string) {
		r.logger.Warn("configuration file changed, restart to apply", zap.String("path", path))
	})
	if err != nil {
		r.logger.Warn("configuration watch stopped", zap.Error(err))
	}
}

// State returns the application lifecycle state.
func (r *Runtime) State() plugin.AppState {
	app := r.app.Load()
	if app == nil {
		return plugin.AppConstructing
	}
	return app.State()
}

// PluginState returns the state of a plugin by name.
func (r *Runtime) PluginState(name string) (plugin.PluginState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.pluginState[name]
	return state, ok
}

// PluginError returns the error that failed a plugin, if any.
func (r *Runtime) PluginError(name string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pluginErrors[name]
}

// ListPlugins returns a snapshot of all plugin states.
func (r *Runtime) ListPlugins() map[string]plugin.PluginState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]plugin.PluginState, len(r.pluginState))
	for k, v := range r.pluginState {
		result[k] = v
	}
	return result
}

// BuildOrder returns the order in which plugins started building.
func (r *Runtime) BuildOrder() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.buildOrder...)
}

// fatal wraps a build-phase failure so that it always classifies as fatal,
// keeping the cause's own type when it has one.
func fatal(err error, msg string) error {
	appErr := apperrors.Wrap(err, msg)
	if !apperrors.IsFatal(appErr) {
		appErr.Type = apperrors.ErrorTypePlugin
		appErr.Code = string(apperrors.ErrorTypePlugin)
	}
	return appErr
}
