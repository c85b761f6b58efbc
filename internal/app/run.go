package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/fsctx/internal/ctxlog"
	"github.com/specialistvlad/fsctx/internal/location"
	"github.com/specialistvlad/fsctx/internal/resource"
	"github.com/specialistvlad/fsctx/internal/watch"
)

// Run bootstraps the context and prints its definitions. In watch mode it
// then blocks until ctx is done, rebuilding the context on every change.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "locations", a.config.Locations)

	a.healthCheckServer(ctx)
	defer func() {
		err = errors.Join(err, a.closeHealthCheckServer(ctx))
	}()

	c, err := a.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to bootstrap context: %w", err)
	}
	a.swap(ctx, c)
	defer func() {
		if c := a.current.Load(); c != nil {
			err = errors.Join(err, c.Close(ctx))
		}
	}()

	if err := a.print(c); err != nil {
		return err
	}

	if !a.config.Watch {
		a.logger.Debug("App.Run method finished.")
		return nil
	}
	return a.watch(ctx)
}

// watch rebuilds the context whenever a loaded file changes or a file
// appears that matches a pattern location. A successful rebuild replaces the
// watched file set, so the watcher is recreated after each one. A failed
// rebuild keeps the previous context.
func (a *App) watch(ctx context.Context) error {
	for {
		current := a.Context()
		files := watch.FilePaths(current.Resources())
		w, err := watch.New(files, patternLocations(current.ConfigLocations()), a.config.Debounce)
		if err != nil {
			return fmt.Errorf("failed to start watching: %w", err)
		}
		a.logger.Info("Watching loaded files for changes.", "files", w.Files(), "patterns", w.Patterns())

		runCtx, restart := context.WithCancel(ctx)
		err = w.Run(runCtx, func(ctx context.Context, name string) {
			if a.reload(ctx, name) {
				restart()
			}
		})
		restart()
		if closeErr := w.Close(); closeErr != nil {
			a.logger.Warn("Failed to close watcher.", "error", closeErr)
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			a.logger.Info("Watch stopped.")
			return nil
		}
	}
}

// reload builds a new context and reports whether it replaced the current one.
func (a *App) reload(ctx context.Context, changed string) bool {
	a.logger.Info("Change detected, rebuilding context.", "file", changed)

	next, err := a.open(ctx)
	if err != nil {
		a.logger.Error("Rebuild failed, keeping previous context.", "error", err)
		return false
	}
	a.swap(ctx, next)
	if err := a.print(next); err != nil {
		a.logger.Error("Failed to print definitions.", "error", err)
	}
	return true
}

// patternLocations returns the OS glob patterns of the pattern locations.
func patternLocations(locations []string) []string {
	var out []string
	for _, loc := range locations {
		if location.IsPattern(loc) {
			out = append(out, resource.FilePattern(loc))
		}
	}
	return out
}
