package resource

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/fsctx/internal/ctxerr"
)

// FileScheme marks an explicit file location that is used as stated.
const FileScheme = "file:"

// Provider hands out handles for arbitrary locations. Locations carrying
// the file scheme become FileHandles without normalisation; everything else
// goes to the injected Resolver.
type Provider struct {
	resolver Resolver
}

// NewProvider creates a provider delegating to r.
func NewProvider(r Resolver) *Provider {
	return &Provider{resolver: r}
}

// Resolver returns the strategy the provider delegates to.
func (p *Provider) Resolver() Resolver { return p.resolver }

// Resource returns the handle for location.
func (p *Provider) Resource(location string) Handle {
	if rest, ok := strings.CutPrefix(location, FileScheme); ok {
		return NewFileHandle(filePath(rest))
	}
	return p.resolver.Resolve(location)
}

// Match expands a pattern into concrete locations that Resource accepts.
func (p *Provider) Match(pattern string) ([]string, error) {
	if rest, ok := strings.CutPrefix(pattern, FileScheme); ok {
		return globOS(filepath.ToSlash(filePath(rest)), FileScheme)
	}
	g, ok := p.resolver.(Globber)
	if !ok {
		return nil, ctxerr.New(ctxerr.KindInvalidArgument, "match", pattern,
			fmt.Errorf("resolver %T does not support patterns", p.resolver))
	}
	return g.Glob(pattern)
}

// filePath extracts the path of a file location with the scheme removed.
// "///abs" (from "file:///abs") collapses to "/abs"; everything else is kept.
func filePath(rest string) string {
	if strings.HasPrefix(rest, "///") {
		return rest[2:]
	}
	return rest
}

// FilePattern returns the OS file-system pattern a location expands under
// the file-system convention: "file:" locations as stated, everything else
// with its leading separators removed.
func FilePattern(location string) string {
	if rest, ok := strings.CutPrefix(location, FileScheme); ok {
		return filepath.ToSlash(filePath(rest))
	}
	return filepath.ToSlash(trimSeparators(location))
}
