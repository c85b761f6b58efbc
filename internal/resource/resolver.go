package resource

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/specialistvlad/fsctx/internal/ctxerr"
)

// Resolver translates one logical path into a handle. Implementations must
// not perform I/O and must not fail.
type Resolver interface {
	Resolve(path string) Handle
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(path string) Handle

func (f ResolverFunc) Resolve(path string) Handle { return f(path) }

// Globber is implemented by resolvers that can expand wildcard patterns
// under their own path convention. Results are concrete locations that
// resolve back through the same resolver.
type Globber interface {
	Glob(pattern string) ([]string, error)
}

const separators = "/" + string(filepath.Separator)

// trimSeparators strips every leading separator so that "/p", "//p" and "p"
// all name the same working-directory-relative location.
func trimSeparators(p string) string {
	return strings.TrimLeft(p, separators)
}

// FileSystemResolver resolves paths relative to the process working
// directory, ignoring any leading separator.
type FileSystemResolver struct{}

func (FileSystemResolver) Resolve(p string) Handle {
	return NewFileHandle(trimSeparators(p))
}

// Glob expands a doublestar pattern ("conf/*.hcl", "/conf/**/*.yaml") under
// the same convention as Resolve. Matches are lexically ordered.
func (FileSystemResolver) Glob(pattern string) ([]string, error) {
	return globOS(filepath.ToSlash(trimSeparators(pattern)), "")
}

// FSResolver resolves paths inside an fs.FS. It is the resolver to use for
// definitions compiled into the binary with embed.
type FSResolver struct {
	FS fs.FS
}

func (r FSResolver) Resolve(p string) Handle {
	return NewFSHandle(r.FS, p)
}

func (r FSResolver) Glob(pattern string) ([]string, error) {
	pattern = strings.TrimLeft(pattern, "/")
	matches, err := doublestar.Glob(r.FS, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, ctxerr.New(ctxerr.KindInvalidArgument, "glob", pattern, err)
	}
	return matches, nil
}

// globOS expands pattern on the OS file system and prefixes every match.
func globOS(pattern, prefix string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, ctxerr.New(ctxerr.KindInvalidArgument, "glob", pattern, doublestar.ErrBadPattern)
	}
	base, rest := doublestar.SplitPattern(pattern)
	matches, err := doublestar.Glob(os.DirFS(base), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, ctxerr.New(ctxerr.KindInvalidArgument, "glob", pattern, err)
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, prefix+path.Join(base, m))
	}
	return out, nil
}
