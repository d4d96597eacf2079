// Package runner drives a lint run: collect, filter, check every document
// concurrently, then join the per-file records into one report.
package runner

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-doclint/internal/collector"
	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/logging"
	"github.com/goliatone/go-doclint/internal/mdast"
	"github.com/goliatone/go-doclint/internal/report"
	"github.com/goliatone/go-doclint/pkg/interfaces"
)

// Config controls which files are linted and how.
type Config struct {
	Extensions []string
	Ignore     []string
	// Workers bounds concurrent file tasks. Zero uses runtime.NumCPU.
	Workers int
	// Fix applies edits from rules implementing lint.Fixer and rewrites the
	// affected files.
	Fix    bool
	Parser mdast.ParseOptions
}

// WriteFileFunc persists fixed sources.
type WriteFileFunc func(name string, data []byte, perm fs.FileMode) error

// Result is the outcome of one run.
type Result struct {
	RunID    string
	Root     string
	Files    []string
	Report   report.Report
	Duration time.Duration
}

// Runner is safe for concurrent use; every Run owns its own state.
type Runner struct {
	cfg       Config
	engine    *lint.Engine
	parser    *mdast.Parser
	logger    interfaces.Logger
	collectLg interfaces.Logger
	parseLg   interfaces.Logger
	fsys      fs.FS
	fsBase    string
	writeFile WriteFileFunc
	newRunID  func() string
	now       func() time.Time
}

// Option customises a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLoggerProvider derives the runner, collector and parser loggers from
// provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(r *Runner) {
		if provider == nil {
			return
		}
		r.logger = logging.RunnerLogger(provider)
		r.collectLg = logging.CollectorLogger(provider)
		r.parseLg = logging.ParserLogger(provider)
	}
}

// WithFileSystem reads documents from fsys instead of the OS. base is the
// caller-visible directory fsys is rooted at and prefixes reported paths.
func WithFileSystem(fsys fs.FS, base string) Option {
	return func(r *Runner) {
		r.fsys = fsys
		r.fsBase = base
	}
}

// WithWriteFile replaces os.WriteFile for fixed documents.
func WithWriteFile(fn WriteFileFunc) Option {
	return func(r *Runner) {
		if fn != nil {
			r.writeFile = fn
		}
	}
}

// WithRunID overrides the run identifier generator.
func WithRunID(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// WithParser reuses an existing parser.
func WithParser(p *mdast.Parser) Option {
	return func(r *Runner) {
		if p != nil {
			r.parser = p
		}
	}
}

// New constructs a Runner around engine.
func New(cfg Config, engine *lint.Engine, opts ...Option) *Runner {
	if engine == nil {
		engine = lint.NewEngine(nil)
	}
	r := &Runner{
		cfg:       cfg,
		engine:    engine,
		logger:    logging.NoOp(),
		writeFile: os.WriteFile,
		newRunID:  func() string { return uuid.NewString() },
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.parser == nil {
		r.parser = mdast.NewParser(cfg.Parser)
	}
	return r
}

// Run lints every matching document below root. Per-file failures become
// records; only a failure to walk root itself, or cancellation, is returned
// as an error.
func (r *Runner) Run(ctx context.Context, root string) (*Result, error) {
	started := r.now()
	runID := r.newRunID()
	ctx = logging.ContextWithFields(ctx, map[string]any{"run_id": runID})
	logger := r.logger.WithContext(ctx)

	c, dir := r.collectorFor(root, r.stageLogger(ctx, r.collectLg, "collect", logger))
	parseLogger := r.stageLogger(ctx, r.parseLg, "parse", logger)
	all, err := c.Collect(ctx, dir)
	if err != nil {
		logger.Debug("runner.collect.failed", "root", root, "error", err)
		return nil, err
	}
	files := collector.FilterByExtension(all, r.cfg.Extensions...)
	logger.Debug("runner.files.selected", "root", root, "matched", len(files), "skipped", len(all)-len(files))

	slots := make([][]lint.Record, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, rel := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			slots[i] = r.lintFile(c, rel, logger, parseLogger)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := report.Merge(slots...).Sorted()
	visible := make([]string, len(files))
	for i, rel := range files {
		visible[i] = c.Path(rel)
	}

	result := &Result{
		RunID:    runID,
		Root:     root,
		Files:    visible,
		Report:   rep,
		Duration: r.now().Sub(started),
	}
	counts := rep.Counts()
	logger.Info("runner.completed",
		"files", len(files),
		"errors", counts.Errors,
		"warnings", counts.Warnings,
		"fixed", counts.Fixed,
		"duration", result.Duration.String(),
	)
	return result, nil
}

func (r *Runner) workers() int {
	if r.cfg.Workers > 0 {
		return r.cfg.Workers
	}
	return runtime.NumCPU()
}

// collectorFor picks the filesystem root. Relative roots are walked from the
// working directory so reported paths keep the root prefix (pages/a.mdx);
// absolute or parent-relative roots become the filesystem root themselves.
func (r *Runner) collectorFor(root string, logger interfaces.Logger) (*collector.Collector, string) {
	cfg := collector.Config{
		Ignore: r.cfg.Ignore,
		Logger: logger,
	}
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	if r.fsys != nil {
		cfg.Base = r.fsBase
		return collector.New(r.fsys, cfg), root
	}
	slash := path.Clean(filepath.ToSlash(root))
	if filepath.IsAbs(root) || !fs.ValidPath(slash) {
		return collector.NewOS(root, cfg), "."
	}
	return collector.NewOS(".", cfg), slash
}

// stageLogger prefers the dedicated stage logger and falls back to the run
// logger tagged with the stage name.
func (r *Runner) stageLogger(ctx context.Context, stage interfaces.Logger, name string, runLogger interfaces.Logger) interfaces.Logger {
	if stage != nil {
		return stage.WithContext(ctx)
	}
	return logging.WithFields(runLogger, map[string]any{"stage": name})
}

func (r *Runner) lintFile(c *collector.Collector, rel string, runLogger, parseLogger interfaces.Logger) []lint.Record {
	file := c.Path(rel)
	logger := logging.WithFileContext(runLogger, file, "")

	source, err := fs.ReadFile(c.FS(), rel)
	if err != nil {
		logger.Warn("runner.file.unreadable", "error", err)
		return []lint.Record{lint.RecordForError(file, lint.FileSystemError(file, err))}
	}

	doc, err := r.parser.Parse(source)
	if err != nil {
		logging.WithFileContext(parseLogger, file, "").Warn("parser.document.rejected", "error", err)
		return []lint.Record{lint.RecordForError(file, lint.ParseFailure(file, err))}
	}

	records := r.engine.Check(file, doc)
	if r.cfg.Fix && len(records) > 0 {
		records = r.fix(c, rel, file, doc, source, records, logger)
	}
	logger.Debug("runner.file.checked", "records", len(records))
	return records
}

func (r *Runner) fix(c *collector.Collector, rel, file string, doc *mdast.Node, source []byte, records []lint.Record, logger interfaces.Logger) []lint.Record {
	edits := r.engine.Fix(file, doc, source)
	if len(edits) == 0 {
		return records
	}
	fixed, applied, err := lint.ApplyEdits(source, edits)
	if err != nil {
		logger.Error("runner.fix.invalid", "error", err)
		return records
	}

	perm := fs.FileMode(0o644)
	if info, statErr := fs.Stat(c.FS(), rel); statErr == nil {
		perm = info.Mode().Perm()
	}
	if err := r.writeFile(file, fixed, perm); err != nil {
		logger.Error("runner.fix.write_failed", "error", err)
		return append(records, lint.RecordForError(file, lint.FileSystemError(file, err)))
	}

	type key struct {
		rule string
		line int
	}
	resolved := make(map[key]struct{}, len(applied))
	for _, edit := range applied {
		resolved[key{edit.Rule, edit.Line}] = struct{}{}
	}
	out := make([]lint.Record, len(records))
	for i, record := range records {
		if _, ok := resolved[key{record.Error.Rule, record.Error.Line}]; ok {
			record.Fixed = true
		}
		out[i] = record
	}
	logger.Info("runner.fix.applied", "edits", len(applied))
	return out
}
