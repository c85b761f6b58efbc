package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/specialistvlad/fsctx/internal/appctx"
	"github.com/specialistvlad/fsctx/internal/ctxlog"
	"github.com/specialistvlad/fsctx/internal/metrics"
)

type healthStatus struct {
	Status      string `json:"status"`
	ContextID   string `json:"context_id,omitempty"`
	State       string `json:"state"`
	Definitions int    `json:"definitions"`
}

// healthHandler reports 200 while an active context is served and 503
// otherwise.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)

	status := healthStatus{Status: "unavailable", State: appctx.StateUnrefreshed.String()}
	code := http.StatusServiceUnavailable
	if c := a.Context(); c != nil {
		status.ContextID = c.ID()
		status.State = c.State().String()
		status.Definitions = len(c.DefinitionNames())
		if c.State() == appctx.StateActive {
			status.Status = "ok"
			code = http.StatusOK
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		a.logger.Warn("Failed to write health response.", "error", err)
	}
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", metrics.Handler(a.gatherer))
	return mux
}

// healthCheckServer starts the health and metrics HTTP server when a port is
// configured. The listener is bound before returning, so a bad port fails
// fast in the logs instead of racing the bootstrap.
func (a *App) healthCheckServer(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if a.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server not started: disabled.")
		return
	}

	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("Health check server failed to listen.", "address", addr, "error", err)
		return
	}

	a.httpServer = &http.Server{
		Handler:           a.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Health check server starting.", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly.", "error", err)
		}
	}()
}

func (a *App) closeHealthCheckServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if a.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down health check server.")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed.", "error", err)
		return err
	}
	a.httpServer = nil
	return nil
}
