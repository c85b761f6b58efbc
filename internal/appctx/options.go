package appctx

import (
	"context"

	"github.com/specialistvlad/fsctx/internal/definition"
	"github.com/specialistvlad/fsctx/internal/location"
	"github.com/specialistvlad/fsctx/internal/metrics"
	"github.com/specialistvlad/fsctx/internal/resource"
)

// Parent is the read-only view of a parent context used for definition
// inheritance. *Context implements it.
type Parent interface {
	Lookup(name string) (*definition.Definition, bool)
}

// Initializer runs after every resource has been loaded and before the
// context becomes active. It may inspect and extend the registry; an error
// fails the refresh.
type Initializer interface {
	Initialize(ctx context.Context, reg *definition.Registry) error
}

// InitializerFunc adapts a function to the Initializer interface.
type InitializerFunc func(ctx context.Context, reg *definition.Registry) error

func (f InitializerFunc) Initialize(ctx context.Context, reg *definition.Registry) error {
	return f(ctx, reg)
}

// Options configures a Context. The zero value of every field is a usable
// default.
type Options struct {
	// Locations are the config locations in override order. Default: none.
	Locations []string

	// SkipRefresh defers the refresh to an explicit Refresh call. Default:
	// false, i.e. the constructor refreshes.
	SkipRefresh bool

	// Parent is consulted by Lookup for names this context does not define.
	// Default: none.
	Parent Parent

	// Resolver is the path convention for locations without a scheme.
	// Required by New; NewFileSystem always uses resource.FileSystemResolver.
	Resolver resource.Resolver

	// Loader reads definition resources. Default: definition.NewLoader().
	Loader *definition.Loader

	// Lookup resolves ${NAME} placeholders in locations. Default: os.LookupEnv.
	Lookup location.LookupFunc

	// Initializers run in order at the end of the refresh.
	Initializers []Initializer

	// Metrics records refresh outcomes. Default: nil, nothing recorded.
	Metrics *metrics.Recorder

	// DisplayName is used in logs. Default: the context ID.
	DisplayName string
}
