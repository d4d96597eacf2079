// Package collector enumerates the files of a documentation tree.
package collector

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/logging"
	"github.com/goliatone/go-doclint/pkg/interfaces"
)

// DefaultExtension is kept by FilterByExtension when no extension is given.
const DefaultExtension = ".mdx"

// DefaultIgnore lists directory names skipped during collection.
func DefaultIgnore() []string {
	return []string{"node_modules", ".git", ".next"}
}

// Config configures a Collector.
type Config struct {
	// Base is the OS directory the filesystem is rooted at. Collected paths
	// are joined onto it by Path.
	Base string
	// Ignore names directories that are never descended into.
	Ignore []string
	Logger interfaces.Logger
}

// Collector lists every regular file reachable under a directory.
type Collector struct {
	fs     fs.FS
	base   string
	ignore map[string]struct{}
	logger interfaces.Logger
}

// New constructs a Collector over filesystem.
func New(filesystem fs.FS, cfg Config) *Collector {
	ignore := make(map[string]struct{}, len(cfg.Ignore))
	for _, name := range cfg.Ignore {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			ignore[trimmed] = struct{}{}
		}
	}
	return &Collector{
		fs:     filesystem,
		base:   cfg.Base,
		ignore: ignore,
		logger: logging.Ensure(cfg.Logger),
	}
}

// NewOS constructs a Collector rooted at the OS directory base.
func NewOS(base string, cfg Config) *Collector {
	if strings.TrimSpace(base) == "" {
		base = "."
	}
	cfg.Base = base
	return New(os.DirFS(base), cfg)
}

// FS exposes the filesystem the collector reads from.
func (c *Collector) FS() fs.FS {
	return c.fs
}

// Path maps a collected slash path back to the caller-visible path.
func (c *Collector) Path(rel string) string {
	if c.base == "" || c.base == "." {
		return filepath.FromSlash(rel)
	}
	return filepath.Join(c.base, filepath.FromSlash(rel))
}

// Collect walks dir and returns the slash-separated paths of every regular
// file below it, sorted. A missing or unreadable dir fails the walk;
// unreadable entries below it are logged and skipped.
func (c *Collector) Collect(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := path.Clean(filepath.ToSlash(dir))
	if root == "" {
		root = "."
	}
	info, err := fs.Stat(c.fs, root)
	if err != nil {
		return nil, lint.FileSystemError(root, err)
	}
	if !info.IsDir() {
		return nil, lint.FileSystemError(root, &fs.PathError{Op: "collect", Path: root, Err: errors.New("not a directory")})
	}

	var files []string
	walkErr := fs.WalkDir(c.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if current == root {
				return walkErr
			}
			c.logger.Warn("collector.entry.skipped", "path", current, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if current != root && c.ignored(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		files = append(files, current)
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, lint.FileSystemError(root, walkErr)
	}

	sort.Strings(files)
	c.logger.Debug("collector.walk.completed", "root", root, "files", len(files))
	return files, nil
}

func (c *Collector) ignored(name string) bool {
	_, ok := c.ignore[name]
	return ok
}

// FilterByExtension keeps the paths whose extension matches one of exts,
// case-insensitively. Extensions may omit the leading dot.
func FilterByExtension(paths []string, exts ...string) []string {
	wanted := normalizeExtensions(exts)
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := wanted[strings.ToLower(path.Ext(filepath.ToSlash(p)))]; ok {
			out = append(out, p)
		}
	}
	return out
}

func normalizeExtensions(exts []string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = struct{}{}
	}
	if len(out) == 0 {
		out[DefaultExtension] = struct{}{}
	}
	return out
}
