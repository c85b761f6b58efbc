package appctx

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/fsctx/internal/ctxerr"
	"github.com/specialistvlad/fsctx/internal/ctxlog"
	"github.com/specialistvlad/fsctx/internal/definition"
	"github.com/specialistvlad/fsctx/internal/location"
	"github.com/specialistvlad/fsctx/internal/metrics"
	"github.com/specialistvlad/fsctx/internal/resource"
)

// ErrNoSuchDefinition is returned by Definition for unknown names.
var ErrNoSuchDefinition = errors.New("no such definition")

// Context is a declarative component context driven by config locations.
type Context struct {
	id           string
	displayName  string
	parent       Parent
	provider     *resource.Provider
	loader       *definition.Loader
	initializers []Initializer
	metrics      *metrics.Recorder

	mu        sync.RWMutex
	state     State
	locations *location.Set
	extra     []resource.Handle
	registry  *definition.Registry
	loaded    []resource.Handle
	err       error
	startedAt time.Time
}

// New builds a context around opts.Resolver, records the locations and,
// unless opts.SkipRefresh is set, refreshes it. Every failure, whether in
// the options or in the refresh, is a *ctxerr.InitError and only the error
// is returned.
func New(ctx context.Context, opts Options) (*Context, error) {
	if opts.Resolver == nil {
		return nil, &ctxerr.InitError{Err: ctxerr.Errorf(ctxerr.KindInvalidArgument, "new context", "", "a resolver is required")}
	}

	c := &Context{
		id:           uuid.NewString(),
		displayName:  opts.DisplayName,
		parent:       opts.Parent,
		provider:     resource.NewProvider(opts.Resolver),
		loader:       opts.Loader,
		initializers: slices.Clone(opts.Initializers),
		metrics:      opts.Metrics,
		locations:    location.NewSet(opts.Lookup),
	}
	if c.displayName == "" {
		c.displayName = c.id
	}
	if c.loader == nil {
		c.loader = definition.NewLoader()
	}

	if opts.Locations != nil {
		if err := c.SetConfigLocations(opts.Locations); err != nil {
			return nil, &ctxerr.InitError{ContextID: c.id, Err: err}
		}
	}

	if opts.SkipRefresh {
		return c, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ID returns the unique identifier of this context.
func (c *Context) ID() string { return c.id }

// DisplayName returns the human-readable name used in logs.
func (c *Context) DisplayName() string { return c.displayName }

// Parent returns the parent context, if any.
func (c *Context) Parent() Parent { return c.parent }

// State returns the current lifecycle state.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Err returns the refresh failure of a Failed context.
func (c *Context) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// SetConfigLocations replaces the location list. It is only allowed before
// the refresh starts.
func (c *Context) SetConfigLocations(locs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUnrefreshed {
		return ctxerr.Errorf(ctxerr.KindIllegalState, "set locations", "", "context %s is %s, locations are immutable", c.id, c.state)
	}
	return c.locations.Replace(locs)
}

// ConfigLocations returns the configured locations before expansion.
func (c *Context) ConfigLocations() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locations.Locations()
}

// AddResources registers extra definition resources. They are loaded ahead
// of the config locations, so a location can override what they define.
func (c *Context) AddResources(handles ...resource.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUnrefreshed {
		return ctxerr.Errorf(ctxerr.KindIllegalState, "add resources", "", "context %s is %s", c.id, c.state)
	}
	for i, h := range handles {
		if h == nil {
			return ctxerr.Errorf(ctxerr.KindInvalidArgument, "add resources", "", "resource %d is nil", i)
		}
	}
	c.extra = append(c.extra, handles...)
	return nil
}

// GetResourceByPath resolves path with the context's resolver convention,
// ignoring any scheme.
func (c *Context) GetResourceByPath(path string) resource.Handle {
	return c.provider.Resolver().Resolve(path)
}

// GetResource resolves a location, honouring the file scheme.
func (c *Context) GetResource(loc string) resource.Handle {
	return c.provider.Resource(loc)
}

// Refresh runs the full load pass. It may be called once, on an
// Unrefreshed context. Any failure leaves the context Failed and is returned
// as a *ctxerr.InitError wrapping the first cause; registrations made before
// the failure are not rolled back.
func (c *Context) Refresh(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateUnrefreshed:
	case StateClosed:
		c.mu.Unlock()
		return ctxerr.Errorf(ctxerr.KindIllegalState, "refresh", "", "context %s is closed", c.id)
	default:
		state := c.state
		c.mu.Unlock()
		return ctxerr.Errorf(ctxerr.KindIllegalState, "refresh", "", "context %s is %s, refresh may only run once", c.id, state)
	}
	c.state = StateRefreshing
	c.startedAt = time.Now()
	c.mu.Unlock()

	ctx, logger := ctxlog.With(ctx, "context_id", c.id)
	logger.Info("Refreshing context.", "display_name", c.displayName, "locations", c.locations.Len(), "extra_resources", len(c.extra))

	reg := definition.NewRegistry()
	loaded, err := c.load(ctx, reg)
	if err == nil {
		err = c.initialize(ctx, reg)
	}

	took := time.Since(c.startedAt)
	stats := metrics.RefreshStats{
		Definitions: reg.Len(),
		Resources:   len(loaded),
		Overrides:   len(reg.Overrides()),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry = reg
	c.loaded = loaded

	if err != nil {
		c.state = StateFailed
		c.err = &ctxerr.InitError{ContextID: c.id, Err: err}
		c.metrics.ObserveRefresh(metrics.OutcomeFailure, took, stats)
		logger.Error("Context refresh failed.", "error", err, "duration", took)
		return c.err
	}

	reg.Freeze()
	c.state = StateActive
	c.metrics.ObserveRefresh(metrics.OutcomeSuccess, took, stats)
	logger.Info("Context refreshed.", "definitions", stats.Definitions, "resources", stats.Resources, "overrides", stats.Overrides, "duration", took)
	return nil
}

// load expands the locations and loads every resource in order.
func (c *Context) load(ctx context.Context, reg *definition.Registry) ([]resource.Handle, error) {
	logger := ctxlog.FromContext(ctx)

	concrete, err := c.locations.Expand(c.provider)
	if err != nil {
		return nil, err
	}
	logger.Debug("Config locations expanded.", "configured", c.locations.Len(), "concrete", len(concrete))

	handles := slices.Clone(c.extra)
	for _, loc := range concrete {
		handles = append(handles, c.provider.Resource(loc))
	}

	loaded := make([]resource.Handle, 0, len(handles))
	for _, h := range handles {
		n, err := c.loader.Load(ctx, h, reg)
		if err != nil {
			return loaded, fmt.Errorf("failed to load definitions from %s: %w", h.Location(), err)
		}
		loaded = append(loaded, h)
		logger.Debug("Resource loaded.", "location", h.Location(), "definitions", n)
	}
	return loaded, nil
}

func (c *Context) initialize(ctx context.Context, reg *definition.Registry) error {
	for i, initializer := range c.initializers {
		if err := initializer.Initialize(ctx, reg); err != nil {
			return fmt.Errorf("initializer %d failed: %w", i, err)
		}
	}
	return nil
}

// Close moves the context to Closed. Closing twice is a no-op; closing
// during a refresh is not allowed.
func (c *Context) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateClosed:
		return nil
	case StateRefreshing:
		return ctxerr.Errorf(ctxerr.KindIllegalState, "close", "", "context %s is refreshing", c.id)
	}
	ctxlog.FromContext(ctx).Info("Closing context.", "context_id", c.id, "previous_state", c.state.String())
	c.state = StateClosed
	return nil
}

// Lookup returns the named definition, falling back to the parent. Only an
// Active context answers; every other state reports not found.
func (c *Context) Lookup(name string) (*definition.Definition, bool) {
	c.mu.RLock()
	reg, state := c.registry, c.state
	c.mu.RUnlock()

	if state != StateActive {
		return nil, false
	}
	if def, ok := reg.Get(name); ok {
		return def, true
	}
	if c.parent != nil {
		return c.parent.Lookup(name)
	}
	return nil, false
}

// Definition is Lookup with errors: IllegalState when the context is not
// Active, ErrNoSuchDefinition when neither it nor its parent knows name.
func (c *Context) Definition(name string) (*definition.Definition, error) {
	if state := c.State(); state != StateActive {
		return nil, ctxerr.Errorf(ctxerr.KindIllegalState, "definition", "", "context %s is %s", c.id, state)
	}
	def, ok := c.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchDefinition, name)
	}
	return def, nil
}

// DefinitionNames lists the local definition names in first-registration
// order. It is empty unless the context is Active.
func (c *Context) DefinitionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateActive {
		return nil
	}
	return c.registry.Names()
}

// Overrides lists the overrides that happened during the refresh. A Failed
// context reports them for diagnosis.
func (c *Context) Overrides() []definition.Override {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.registry == nil {
		return nil
	}
	return c.registry.Overrides()
}

// Aliases returns the aliases of a local definition.
func (c *Context) Aliases(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateActive {
		return nil
	}
	return c.registry.Aliases(name)
}

// Resources returns the handles loaded by the refresh, in load order.
// Imports are not included.
func (c *Context) Resources() []resource.Handle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.loaded)
}
