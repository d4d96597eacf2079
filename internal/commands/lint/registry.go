package lintcmd

import (
	"errors"
	"io"

	"github.com/goliatone/go-doclint/internal/commands"
	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/logging"
	"github.com/goliatone/go-doclint/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers built by RegisterLintCommands.
type HandlerSet struct {
	Lint  *LintDirectoryHandler
	Rules *ListRulesHandler
}

// Dependencies are the collaborators the lint handlers run against.
type Dependencies struct {
	Runner   Runner
	RuleSet  *lint.RuleSet
	Output   io.Writer
	Provider interfaces.LoggerProvider
	OnResult ResultHook
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	lintHandlerOpts  []commands.HandlerOption[LintDirectoryCommand]
	rulesHandlerOpts []commands.HandlerOption[ListRulesCommand]
}

// WithLintHandlerOptions forwards options to the LintDirectoryHandler constructor.
func WithLintHandlerOptions(opts ...commands.HandlerOption[LintDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.lintHandlerOpts = append(cfg.lintHandlerOpts, opts...)
	}
}

// WithRulesHandlerOptions forwards options to the ListRulesHandler constructor.
func WithRulesHandlerOptions(opts ...commands.HandlerOption[ListRulesCommand]) Option {
	return func(cfg *options) {
		cfg.rulesHandlerOpts = append(cfg.rulesHandlerOpts, opts...)
	}
}

// RegisterLintCommands builds the lint handlers and registers them with reg
// when it is non-nil.
func RegisterLintCommands(reg CommandRegistry, deps Dependencies, opts ...Option) (*HandlerSet, error) {
	if deps.Runner == nil {
		return nil, errors.New("lint command registration: runner is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := logging.CommandLogger(deps.Provider, "lint")

	set := &HandlerSet{
		Lint:  NewLintDirectoryHandler(deps.Runner, deps.Output, logger, deps.OnResult, cfg.lintHandlerOpts...),
		Rules: NewListRulesHandler(deps.RuleSet, deps.Output, logger, cfg.rulesHandlerOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Lint); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Rules); err != nil {
			return nil, err
		}
	}
	return set, nil
}
