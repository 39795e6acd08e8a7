package plugin

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/leeforge/autumn/component"
	"github.com/leeforge/autumn/config"
	"github.com/leeforge/autumn/env_mode"
	"github.com/leeforge/autumn/logging"
)

// App is the built application. Its configuration and registry never change;
// it is shared by pointer with every scheduler and shutdown hook.
type App struct {
	id         uuid.UUID
	env        env_mode.Env
	config     *config.Store
	components *component.Registry
	logger     logging.Logger
	state      atomic.Int32
}

// Freeze consumes b and returns the immutable App built from it. The registry
// is frozen and b rejects further mutation.
func Freeze(b *Builder) *App {
	b.mustBeOpen()
	b.consumed = true
	b.components.Freeze()

	app := &App{
		id:         newRunID(),
		env:        b.env,
		config:     b.config,
		components: b.components,
		logger:     b.logger,
	}
	app.state.Store(int32(AppBuilt))
	return app
}

func newRunID() uuid.UUID {
	if id, err := uuid.NewV7(); err == nil {
		return id
	}
	return uuid.New()
}

func (a *App) ID() uuid.UUID                   { return a.id }
func (a *App) Env() env_mode.Env               { return a.env }
func (a *App) Config() *config.Store           { return a.config }
func (a *App) Components() *component.Registry { return a.components }
func (a *App) Logger() logging.Logger          { return a.logger }

// State returns the current lifecycle state.
func (a *App) State() AppState {
	return AppState(a.state.Load())
}

// Advance moves the App to the next lifecycle state. States only move forward.
func (a *App) Advance(to AppState) error {
	from := a.State()
	if to != from+1 {
		return fmt.Errorf("invalid app state transition %s -> %s", from, to)
	}
	if !a.state.CompareAndSwap(int32(from), int32(to)) {
		return fmt.Errorf("app state changed concurrently from %s", from)
	}
	return nil
}
