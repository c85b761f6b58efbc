// Package watch reports changes to the files a context was loaded from.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/fsctx/internal/ctxlog"
	"github.com/specialistvlad/fsctx/internal/resource"
)

// DefaultDebounce is how long a burst of events must stay quiet before the
// change is reported.
const DefaultDebounce = 200 * time.Millisecond

// pattern is a glob split into an absolute static base directory and the
// slash-separated remainder matched below it.
type pattern struct {
	base      string
	rest      string
	recursive bool
}

func (p pattern) match(name string) bool {
	rel, err := filepath.Rel(p.base, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	return doublestar.MatchUnvalidated(p.rest, filepath.ToSlash(rel))
}

func (p pattern) covers(dir string) bool {
	rel, err := filepath.Rel(p.base, dir)
	return err == nil && !strings.HasPrefix(rel, "..")
}

// Watcher watches a fixed set of files and glob patterns. Parent
// directories are watched rather than the files themselves so that editors
// replacing a file through a rename are still noticed. For a pattern the
// static base directory is watched, together with its subdirectories when
// the pattern contains "**", so that new matching files are reported too.
type Watcher struct {
	fw       *fsnotify.Watcher
	files    map[string]struct{}
	patterns []pattern
	debounce time.Duration
}

// New starts watching paths and patterns. Relative paths and patterns are
// made absolute against the working directory. A pattern whose base
// directory does not exist is skipped.
func New(paths, patterns []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{fw: fw, files: make(map[string]struct{}), debounce: debounce}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %q: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for _, raw := range patterns {
		if !doublestar.ValidatePattern(raw) {
			fw.Close()
			return nil, fmt.Errorf("invalid pattern %q: %w", raw, doublestar.ErrBadPattern)
		}
		base, rest := doublestar.SplitPattern(filepath.ToSlash(raw))
		abs, err := filepath.Abs(filepath.FromSlash(base))
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %q: %w", base, err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			continue
		}
		p := pattern{base: abs, rest: rest, recursive: strings.Contains(rest, "**")}
		w.patterns = append(w.patterns, p)
		if !p.recursive {
			dirs[abs] = struct{}{}
			continue
		}
		err = filepath.WalkDir(abs, func(dir string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				dirs[dir] = struct{}{}
			}
			return nil
		})
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to walk %q: %w", abs, err)
		}
	}

	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}
	return w, nil
}

// FilePaths returns the paths of the handles that live on the OS file
// system. Other handles cannot be watched and are skipped.
func FilePaths(handles []resource.Handle) []string {
	var out []string
	for _, h := range handles {
		if fh, ok := h.(*resource.FileHandle); ok {
			out = append(out, fh.Path())
		}
	}
	return out
}

// Files returns the number of watched files.
func (w *Watcher) Files() int { return len(w.files) }

// Patterns returns the number of watched patterns.
func (w *Watcher) Patterns() int { return len(w.patterns) }

// relevant reports whether name is a watched file or matches a pattern.
func (w *Watcher) relevant(name string) bool {
	if _, ok := w.files[name]; ok {
		return true
	}
	for _, p := range w.patterns {
		if p.match(name) {
			return true
		}
	}
	return false
}

// follow starts watching a directory created below a recursive pattern base.
func (w *Watcher) follow(ctx context.Context, name string) {
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return
	}
	for _, p := range w.patterns {
		if p.recursive && p.covers(name) {
			if err := w.fw.Add(name); err != nil {
				ctxlog.FromContext(ctx).Warn("Failed to watch new directory.", "dir", name, "error", err)
			}
			return
		}
	}
}

// Run blocks until ctx is done, calling onChange after every debounced burst
// of writes, creates, renames or removals of a watched file or of a file
// matching a watched pattern. name is the last file that changed in the
// burst.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, name string)) error {
	logger := ctxlog.FromContext(ctx)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if event.Has(fsnotify.Create) {
				w.follow(ctx, name)
			}
			if !w.relevant(name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Debug("Watched file changed.", "file", name, "op", event.Op.String())
			pending = name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(ctx, pending)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error.", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
