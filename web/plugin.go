package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/leeforge/autumn/component"
	"github.com/leeforge/autumn/logging"
	"github.com/leeforge/autumn/metrics"
	"github.com/leeforge/autumn/plugin"
	"go.uber.org/zap"
)

// PluginName is the name WebPlugin registers under.
const PluginName = "web"

// WebPlugin registers the *Router component and a "web.serve" scheduler that
// serves it until the run context is canceled.
type WebPlugin struct {
	mu       sync.RWMutex
	listener net.Listener
}

func (p *WebPlugin) Name() string { return PluginName }

func (p *WebPlugin) Build(_ context.Context, b *plugin.Builder) error {
	cfg, err := plugin.AddConfig[Config](b)
	if err != nil {
		return err
	}

	logger := b.Logger().Named(PluginName)
	var middlewares []func(http.Handler) http.Handler
	if collector, ok := component.Get[*metrics.Collector](b.Components()); ok {
		middlewares = append(middlewares, metrics.Middleware(collector))
	}
	router := NewRouter(logger, middlewares...)
	if cfg.Actuator {
		MountActuator(router, b.Components(), b.Config())
	}
	if err := b.AddComponent(router); err != nil {
		return err
	}

	b.AddScheduler("web.serve", func(ctx context.Context, _ *plugin.App) (string, error) {
		return p.serve(ctx, cfg, router, logger)
	})
	return nil
}

// Addr returns the listening address, or nil when the server is not running.
func (p *WebPlugin) Addr() net.Addr {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

// HealthCheck reports whether the server is accepting connections.
func (p *WebPlugin) HealthCheck(context.Context) error {
	if p.Addr() == nil {
		return errors.New("web server not listening")
	}
	return nil
}

func (p *WebPlugin) serve(ctx context.Context, cfg Config, handler http.Handler, logger logging.Logger) (string, error) {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	p.setListener(ln)
	defer p.setListener(nil)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("web server started", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return "", fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	if !cfg.Graceful {
		_ = srv.Close()
		return "web server closed", nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return "", fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("web server stopped gracefully")
	return "web server stopped", nil
}

func (p *WebPlugin) setListener(ln net.Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = ln
}
