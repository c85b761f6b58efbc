package resource

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/fsctx/internal/ctxerr"
)

// Handle is an opaque, openable reference to the bytes behind a location.
type Handle interface {
	// Location is the resolved location string, e.g. a cleaned file path.
	Location() string
	// Exists reports whether the handle currently points at a readable,
	// non-directory resource. It performs I/O.
	Exists() bool
	// Open returns a reader over the content. The caller must close it.
	Open() (io.ReadCloser, error)
	// Relative resolves rel against the directory of this handle.
	Relative(rel string) Handle
}

// FileHandle is a handle on the operating system's file system. Relative
// paths are interpreted against the process working directory at Open time.
type FileHandle struct {
	path string
}

// NewFileHandle returns a handle for the cleaned path.
func NewFileHandle(p string) *FileHandle {
	return &FileHandle{path: filepath.Clean(filepath.FromSlash(p))}
}

// Path returns the cleaned file-system path.
func (h *FileHandle) Path() string { return h.path }

func (h *FileHandle) Location() string { return h.path }

func (h *FileHandle) String() string { return fmt.Sprintf("file [%s]", h.path) }

func (h *FileHandle) Exists() bool {
	info, err := os.Stat(h.path)
	return err == nil && !info.IsDir()
}

func (h *FileHandle) Open() (io.ReadCloser, error) {
	f, err := os.Open(h.path)
	if err != nil {
		return nil, ctxerr.New(ctxerr.KindResourceNotFound, "open", h.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ctxerr.New(ctxerr.KindResourceNotFound, "stat", h.path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ctxerr.Errorf(ctxerr.KindResourceNotFound, "open", h.path, "is a directory")
	}
	return f, nil
}

func (h *FileHandle) Relative(rel string) Handle {
	if rest, ok := strings.CutPrefix(rel, FileScheme); ok {
		return NewFileHandle(filePath(rest))
	}
	return NewFileHandle(filepath.Join(filepath.Dir(h.path), filepath.FromSlash(rel)))
}

// FSHandle is a handle on a name inside an fs.FS, such as an embed.FS.
type FSHandle struct {
	fsys fs.FS
	name string
}

// NewFSHandle returns a handle for name inside fsys. Leading slashes are
// dropped because fs.FS names are always unrooted.
func NewFSHandle(fsys fs.FS, name string) *FSHandle {
	return &FSHandle{fsys: fsys, name: path.Clean("/" + strings.TrimLeft(name, "/"))[1:]}
}

func (h *FSHandle) Location() string {
	if h.name == "" {
		return "."
	}
	return h.name
}

func (h *FSHandle) String() string { return fmt.Sprintf("fs resource [%s]", h.Location()) }

func (h *FSHandle) Exists() bool {
	info, err := fs.Stat(h.fsys, h.Location())
	return err == nil && !info.IsDir()
}

func (h *FSHandle) Open() (io.ReadCloser, error) {
	f, err := h.fsys.Open(h.Location())
	if err != nil {
		return nil, ctxerr.New(ctxerr.KindResourceNotFound, "open", h.Location(), err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ctxerr.New(ctxerr.KindResourceNotFound, "stat", h.Location(), err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ctxerr.Errorf(ctxerr.KindResourceNotFound, "open", h.Location(), "is a directory")
	}
	return f, nil
}

func (h *FSHandle) Relative(rel string) Handle {
	if rest, ok := strings.CutPrefix(rel, FileScheme); ok {
		return NewFileHandle(filePath(rest))
	}
	return NewFSHandle(h.fsys, path.Join(path.Dir(h.Location()), rel))
}
