package definition

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/fsctx/internal/ctxerr"
	"github.com/specialistvlad/fsctx/internal/ctxlog"
	"github.com/specialistvlad/fsctx/internal/resource"
)

// Reader parses the raw content of one resource into a Document. Readers do
// not touch the registry.
type Reader interface {
	Read(ctx context.Context, location string, src []byte) (*Document, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, location string, src []byte) (*Document, error)

func (f ReaderFunc) Read(ctx context.Context, location string, src []byte) (*Document, error) {
	return f(ctx, location, src)
}

// Loader reads resources with the Reader registered for their extension and
// merges the result into a Registry.
type Loader struct {
	readers map[string]Reader
}

// NewLoader creates a loader that understands .hcl, .json, .yaml and .yml.
func NewLoader() *Loader {
	l := &Loader{readers: make(map[string]Reader)}
	l.Register(".hcl", NewHCLReader())
	l.Register(".json", NewHCLJSONReader())
	yr := NewYAMLReader()
	l.Register(".yaml", yr)
	l.Register(".yml", yr)
	return l
}

// Register binds a Reader to a file extension such as ".toml", replacing
// any earlier binding.
func (l *Loader) Register(ext string, r Reader) {
	l.readers[normalizeExt(ext)] = r
}

// ReaderFor returns the Reader responsible for location.
func (l *Loader) ReaderFor(location string) (Reader, bool) {
	r, ok := l.readers[normalizeExt(filepath.Ext(location))]
	return r, ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Load reads h, its imports first, and registers every definition and alias
// into reg. It returns the number of definitions registered, including the
// ones that overrode earlier registrations. It stops at the first error and
// does not undo registrations made before it.
func (l *Loader) Load(ctx context.Context, h resource.Handle, reg *Registry) (int, error) {
	return l.load(ctx, h, reg, make(map[string]struct{}))
}

func (l *Loader) load(ctx context.Context, h resource.Handle, reg *Registry, active map[string]struct{}) (int, error) {
	logger := ctxlog.FromContext(ctx)
	loc := h.Location()

	if _, cyclic := active[loc]; cyclic {
		return 0, ctxerr.Errorf(ctxerr.KindDefinitionParse, "import", loc, "circular import")
	}
	active[loc] = struct{}{}
	defer delete(active, loc)

	reader, ok := l.ReaderFor(loc)
	if !ok {
		return 0, ctxerr.Errorf(ctxerr.KindDefinitionParse, "load", loc, "no reader registered for extension %q", filepath.Ext(loc))
	}

	src, err := readAll(h)
	if err != nil {
		return 0, err
	}

	doc, err := reader.Read(ctx, loc, src)
	if err != nil {
		if ctxerr.KindOf(err) == ctxerr.KindUnknown {
			err = ctxerr.New(ctxerr.KindDefinitionParse, "read", loc, err)
		}
		return 0, err
	}

	count := 0
	for _, imp := range doc.Imports {
		logger.Debug("Loading imported resource.", "location", loc, "import", imp)
		n, err := l.load(ctx, h.Relative(imp), reg, active)
		if err != nil {
			return count, fmt.Errorf("import %q from %s: %w", imp, loc, err)
		}
		count += n
	}

	for _, def := range doc.Definitions {
		if def.Source == "" {
			def.Source = loc
		}
		if err := Validate(def); err != nil {
			return count, ctxerr.New(ctxerr.KindDefinitionParse, "validate", loc, err)
		}
		overridden, err := reg.Register(def)
		if err != nil {
			return count, err
		}
		if overridden {
			logger.Debug("Definition overridden by later source.", "name", def.Name, "source", loc)
		}
		count++
	}

	for _, alias := range doc.Aliases {
		if err := validatorInstance().Struct(alias); err != nil {
			return count, ctxerr.New(ctxerr.KindDefinitionParse, "validate alias", loc, err)
		}
		if err := reg.RegisterAlias(alias.Name, alias.Target); err != nil {
			return count, err
		}
	}

	logger.Debug("Loaded definitions from resource.", "location", loc, "definitions", count, "aliases", len(doc.Aliases))
	return count, nil
}

// readAll opens, drains and closes h.
func readAll(h resource.Handle) ([]byte, error) {
	rc, err := h.Open()
	if err != nil {
		if ctxerr.KindOf(err) == ctxerr.KindUnknown {
			err = ctxerr.New(ctxerr.KindResourceNotFound, "open", h.Location(), err)
		}
		return nil, err
	}
	defer rc.Close()

	src, err := io.ReadAll(rc)
	if err != nil {
		return nil, ctxerr.New(ctxerr.KindResourceNotFound, "read", h.Location(), err)
	}
	return src, nil
}
