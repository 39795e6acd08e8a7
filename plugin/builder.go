package plugin

import (
	"reflect"

	"github.com/leeforge/autumn/component"
	"github.com/leeforge/autumn/config"
	"github.com/leeforge/autumn/env_mode"
	apperrors "github.com/leeforge/autumn/errors"
	"github.com/leeforge/autumn/logging"
	"go.uber.org/zap"
)

// Builder is the mutable application under construction. Plugins receive it
// in Build and use it to register components, schedulers and shutdown hooks.
// Freeze consumes it; any later mutation panics.
type Builder struct {
	env           env_mode.Env
	config        *config.Store
	components    *component.Registry
	logger        logging.Logger
	schedulers    *TaskQueue
	shutdownHooks *TaskQueue
	consumed      bool

	services      []pendingService

	// first failed AddComponent since the last TakeError
	componentErr error
}

// NewBuilder creates a Builder with an empty configuration and registry.
func NewBuilder(env env_mode.Env, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.Global()
	}
	return &Builder{
		env:           env,
		config:        config.Empty(),
		components:    component.NewRegistry(),
		logger:        logger,
		schedulers:    NewTaskQueue(FIFO),
		shutdownHooks: NewTaskQueue(LIFO),
	}
}

func (b *Builder) Env() env_mode.Env               { return b.env }
func (b *Builder) Config() *config.Store           { return b.config }
func (b *Builder) Components() *component.Registry { return b.components }
func (b *Builder) Logger() logging.Logger          { return b.logger }
func (b *Builder) Schedulers() *TaskQueue          { return b.schedulers }
func (b *Builder) ShutdownHooks() *TaskQueue       { return b.shutdownHooks }
func (b *Builder) Consumed() bool                  { return b.consumed }

// SetConfig replaces the configuration store.
func (b *Builder) SetConfig(store *config.Store) {
	b.mustBeOpen()
	b.config = store
}

// SetLogger replaces the logger handed to plugins built from now on.
func (b *Builder) SetLogger(logger logging.Logger) {
	b.mustBeOpen()
	b.logger = logger
}

// AddComponent registers v under its concrete type.
func (b *Builder) AddComponent(v any) error {
	b.mustBeOpen()
	if err := b.components.Register(v); err != nil {
		if b.componentErr == nil {
			b.componentErr = err
		}
		return err
	}
	b.logger.Debug("component added", zap.String("type", reflect.TypeOf(v).String()))
	return nil
}

// TakeError returns the first AddComponent failure recorded since the
// previous call and clears it. A plugin that drops that error still fails.
func (b *Builder) TakeError() error {
	err := b.componentErr
	b.componentErr = nil
	return err
}

// AddScheduler queues a task to run once the application is built.
// Schedulers run one at a time in registration order.
func (b *Builder) AddScheduler(name string, s Scheduler) {
	b.mustBeOpen()
	b.schedulers.Push(name, s)
}

// AddShutdownHook queues a task to run after every scheduler has returned.
// Hooks run in reverse registration order.
func (b *Builder) AddShutdownHook(name string, s Scheduler) {
	b.mustBeOpen()
	b.shutdownHooks.Push(name, s)
}

func (b *Builder) mustBeOpen() {
	if b.consumed {
		panic("plugin: builder used after Freeze")
	}
}

// AddConfig decodes the section named by T's ConfigPrefix and registers the
// result as a component.
func AddConfig[T config.Configurable](b *Builder) (T, error) {
	cfg, err := config.Get[T](b.config)
	if err != nil {
		return cfg, err
	}
	if err := b.AddComponent(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// AddService queues a *T to be built by InjectServices once every plugin has
// built. Fields tagged with ServiceTag are filled from the registry or the
// configuration; the result is registered under *T.
func AddService[T any](b *Builder) {
	b.mustBeOpen()
	b.services = append(b.services, pendingService{
		typ: reflect.TypeOf((**T)(nil)).Elem(),
		inject: func(b *Builder) (any, error) {
			return NewService[T](b)
		},
	})
}

// InjectServices builds and registers every queued service in queue order.
// A service waiting on a component that another service provides is retried
// after the rest; a pass without progress reports every missing component.
func (b *Builder) InjectServices() error {
	b.mustBeOpen()
	pending := b.services
	b.services = nil

	for len(pending) > 0 {
		var waiting []pendingService
		missing := apperrors.NewErrorChain()
		for _, svc := range pending {
			v, err := svc.inject(b)
			if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
				waiting = append(waiting, svc)
				missing.Add(err)
				continue
			}
			if err != nil {
				return err
			}
			if err := b.AddComponent(v); err != nil {
				return err
			}
			b.logger.Debug("service injected", zap.String("type", svc.typ.String()))
		}
		if len(waiting) == len(pending) {
			return missing.Err()
		}
		pending = waiting
	}
	return nil
}
