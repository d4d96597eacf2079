// Package doclint lints MDX documentation trees. A Module bundles the rule
// set, the concurrent runner and the command handlers behind one façade.
package doclint

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	lintcmd "github.com/goliatone/go-doclint/internal/commands/lint"
	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/lint/rules"
	"github.com/goliatone/go-doclint/internal/logging"
	"github.com/goliatone/go-doclint/internal/logging/console"
	"github.com/goliatone/go-doclint/internal/logging/gologger"
	"github.com/goliatone/go-doclint/internal/mdast"
	"github.com/goliatone/go-doclint/internal/runner"
	"github.com/goliatone/go-doclint/internal/watch"
	"github.com/goliatone/go-doclint/pkg/interfaces"
)

type (
	Rule     = lint.Rule
	RuleInfo = lint.RuleInfo
	Result   = runner.Result
	Record   = lint.Record
	Finding  = lint.Finding
	Severity = lint.Severity

	LintDirectoryCommand = lintcmd.LintDirectoryCommand
	ListRulesCommand     = lintcmd.ListRulesCommand
)

// ErrViolationsFound is returned by Module.Execute when FailOnError is set
// and the run produced error-severity records.
var ErrViolationsFound = lintcmd.ErrViolationsFound

// Option customises Module construction.
type Option func(*options)

type options struct {
	provider  interfaces.LoggerProvider
	output    io.Writer
	fsys      fs.FS
	fsBase    string
	writeFile runner.WriteFileFunc
	readFile  func(string) ([]byte, error)
	extra     []lint.Rule
	onResult  lintcmd.ResultHook
	registry  lintcmd.CommandRegistry
}

// WithLoggerProvider overrides the provider derived from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) { o.provider = provider }
}

// WithOutput sets where reports are written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithFileSystem lints documents from fsys; base prefixes reported paths.
func WithFileSystem(fsys fs.FS, base string) Option {
	return func(o *options) {
		o.fsys = fsys
		o.fsBase = base
	}
}

// WithWriteFile replaces os.WriteFile when fixes are applied.
func WithWriteFile(fn runner.WriteFileFunc) Option {
	return func(o *options) { o.writeFile = fn }
}

// WithSchemaReader replaces os.ReadFile for the frontmatter schema.
func WithSchemaReader(fn func(string) ([]byte, error)) Option {
	return func(o *options) { o.readFile = fn }
}

// WithRules registers extra rules after the built-in ones.
func WithRules(extra ...lint.Rule) Option {
	return func(o *options) { o.extra = append(o.extra, extra...) }
}

// WithResultHook observes every completed run.
func WithResultHook(fn func(*Result)) Option {
	return func(o *options) { o.onResult = fn }
}

// WithCommandRegistry registers the command handlers with reg.
func WithCommandRegistry(reg lintcmd.CommandRegistry) Option {
	return func(o *options) { o.registry = reg }
}

// Module is the top level doclint runtime façade.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
	ruleSet  *lint.RuleSet
	engine   *lint.Engine
	runner   *runner.Runner
	handlers *lintcmd.HandlerSet
}

// New validates cfg and wires the rule set, runner and handlers.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{output: os.Stdout, readFile: os.ReadFile}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	provider := o.provider
	if provider == nil {
		var err error
		provider, err = NewLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
	}

	ruleCfg, err := ruleConfig(cfg, o.readFile)
	if err != nil {
		return nil, err
	}
	builtin, err := rules.Builtin(ruleCfg)
	if err != nil {
		return nil, err
	}
	set, err := lint.NewRuleSet(append(builtin, o.extra...)...)
	if err != nil {
		return nil, err
	}

	engine := lint.NewEngine(set, lint.WithLogger(logging.EngineLogger(provider)))
	runnerOpts := []runner.Option{runner.WithLoggerProvider(provider)}
	if o.fsys != nil {
		runnerOpts = append(runnerOpts, runner.WithFileSystem(o.fsys, o.fsBase))
	}
	if o.writeFile != nil {
		runnerOpts = append(runnerOpts, runner.WithWriteFile(o.writeFile))
	}
	run := runner.New(runner.Config{
		Extensions: cfg.Extensions,
		Ignore:     cfg.Ignore,
		Workers:    cfg.Workers,
		Fix:        cfg.Fix,
		Parser: mdast.ParseOptions{
			Extensions:         cfg.Parser.Extensions,
			DisableMDX:         !cfg.Parser.MDX,
			DisableFrontMatter: !cfg.Parser.FrontMatter,
		},
	}, engine, runnerOpts...)

	handlers, err := lintcmd.RegisterLintCommands(o.registry, lintcmd.Dependencies{
		Runner:   run,
		RuleSet:  set,
		Output:   o.output,
		Provider: provider,
		OnResult: o.onResult,
	})
	if err != nil {
		return nil, err
	}

	logger := logging.ModuleLogger(provider, "doclint")
	logger.Debug("module.configured", "rules", set.Len(), "workers", cfg.Workers, "fix", cfg.Fix)

	return &Module{
		cfg:      cfg,
		provider: provider,
		logger:   logger,
		ruleSet:  set,
		engine:   engine,
		runner:   run,
		handlers: handlers,
	}, nil
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config { return m.cfg }

// LoggerProvider exposes the provider shared by every component.
func (m *Module) LoggerProvider() interfaces.LoggerProvider { return m.provider }

// Lint runs the linter below root and returns the raw result without
// rendering it.
func (m *Module) Lint(ctx context.Context, root string) (*Result, error) {
	if strings.TrimSpace(root) == "" {
		root = m.cfg.ContentDir
	}
	return m.runner.Run(ctx, root)
}

// Execute lints msg.Directory and renders the report to the module output.
func (m *Module) Execute(ctx context.Context, msg LintDirectoryCommand) error {
	if strings.TrimSpace(msg.Directory) == "" {
		msg.Directory = m.cfg.ContentDir
	}
	if msg.Format == "" {
		msg.Format = m.cfg.Format
	}
	return m.handlers.Lint.Execute(ctx, msg)
}

// ListRules renders the registered rules to the module output.
func (m *Module) ListRules(ctx context.Context, format string) error {
	if format == "" {
		format = m.cfg.Format
	}
	return m.handlers.Rules.Execute(ctx, ListRulesCommand{Format: format})
}

// Rules describes every registered rule in registration order.
func (m *Module) Rules() []RuleInfo {
	all := m.ruleSet.Rules()
	infos := make([]RuleInfo, len(all))
	for i, rule := range all {
		infos[i] = lint.Describe(rule)
	}
	return infos
}

// LintHandler exposes the lint command handler for dispatcher wiring.
func (m *Module) LintHandler() *lintcmd.LintDirectoryHandler { return m.handlers.Lint }

// Watch calls fn with every debounced batch of changed documents below
// root until ctx is done.
func (m *Module) Watch(ctx context.Context, root string, fn watch.Handler) error {
	if strings.TrimSpace(root) == "" {
		root = m.cfg.ContentDir
	}
	w, err := watch.New(watch.Config{
		Root:       root,
		Extensions: m.cfg.Extensions,
		Ignore:     m.cfg.Ignore,
		Debounce:   m.cfg.Watch.Debounce,
		Logger:     logging.WatchLogger(m.provider),
	})
	if err != nil {
		return lint.FileSystemError(root, err)
	}
	return w.Run(ctx, fn)
}

// IsViolationsFound reports whether err is the FailOnError gate.
func IsViolationsFound(err error) bool {
	return lintcmd.IsViolationsFound(err)
}

// NewLoggerProvider builds the provider named by cfg.Provider.
func NewLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		level, ok := console.ParseLevel(cfg.Level)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, cfg.Level)
		}
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}

func ruleConfig(cfg Config, readFile func(string) ([]byte, error)) (rules.Config, error) {
	out := rules.Config{
		SentenceCase: rules.SentenceCaseConfig{
			Enabled:      cfg.Rules.SentenceCase.Enabled,
			Tokenizer:    cfg.Rules.SentenceCase.Tokenizer,
			Allow:        cfg.Rules.SentenceCase.Allow,
			SkipDefaults: cfg.Rules.SentenceCase.SkipDefaults,
		},
	}
	if cfg.Rules.Frontmatter.Enabled {
		path := cfg.Rules.Frontmatter.Schema
		schema, err := readFile(path)
		if err != nil {
			return rules.Config{}, lint.FileSystemError(path, err)
		}
		out.Frontmatter = rules.FrontmatterConfig{
			Enabled:    true,
			SchemaName: path,
			Schema:     schema,
		}
	}
	return out, nil
}