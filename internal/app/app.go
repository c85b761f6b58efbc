package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/fsctx/internal/appctx"
	"github.com/specialistvlad/fsctx/internal/metrics"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	gatherer prometheus.Gatherer
	recorder *metrics.Recorder

	current atomic.Pointer[appctx.Context]

	// outMu serialises writes of the definitions listing.
	outMu      sync.Mutex
	httpServer *http.Server
}

// NewApp builds an App that prints definitions to outW and logs to logW.
// Every App owns its logger and metrics registry.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}
	logger.Debug("Logger and metrics configured.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		gatherer: reg,
		recorder: recorder,
	}, nil
}

// Context returns the context currently served, or nil before the first
// successful bootstrap.
func (a *App) Context() *appctx.Context {
	return a.current.Load()
}

// open bootstraps a fresh file-system context from the configured locations.
func (a *App) open(ctx context.Context) (*appctx.Context, error) {
	return appctx.NewFileSystem(ctx, appctx.Options{
		Locations:   a.config.Locations,
		Metrics:     a.recorder,
		DisplayName: "fsctx",
	})
}

// swap installs next as the served context and closes the previous one.
func (a *App) swap(ctx context.Context, next *appctx.Context) {
	prev := a.current.Swap(next)
	if prev == nil {
		return
	}
	if err := prev.Close(ctx); err != nil {
		a.logger.Warn("Failed to close previous context.", "context_id", prev.ID(), "error", err)
	}
}
