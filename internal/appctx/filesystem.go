package appctx

import (
	"context"

	"github.com/specialistvlad/fsctx/internal/resource"
)

// NewFileSystem builds a context whose locations follow the file-system
// convention: without a "file:" prefix every location is relative to the
// working directory, a leading slash included.
func NewFileSystem(ctx context.Context, opts Options) (*Context, error) {
	opts.Resolver = resource.FileSystemResolver{}
	return New(ctx, opts)
}

// OpenFileSystem builds and refreshes a file-system context for locations.
func OpenFileSystem(ctx context.Context, locations ...string) (*Context, error) {
	if locations == nil {
		locations = []string{}
	}
	return NewFileSystem(ctx, Options{Locations: locations})
}

// OpenFileSystemWithParent builds and refreshes a file-system context that
// inherits definitions from parent.
func OpenFileSystemWithParent(ctx context.Context, parent Parent, locations ...string) (*Context, error) {
	if locations == nil {
		locations = []string{}
	}
	return NewFileSystem(ctx, Options{Locations: locations, Parent: parent})
}
