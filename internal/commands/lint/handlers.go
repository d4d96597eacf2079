package lintcmd

import (
	"context"
	"errors"
	"io"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-doclint/internal/commands"
	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/logging"
	"github.com/goliatone/go-doclint/internal/report"
	"github.com/goliatone/go-doclint/internal/runner"
	"github.com/goliatone/go-doclint/pkg/interfaces"
)

const (
	lintOperation  = "lint.directory"
	rulesOperation = "rules.list"

	// TextCodeViolationsFound tags the error returned when FailOnError is set
	// and the report holds error-severity records.
	TextCodeViolationsFound = "DOCLINT_VIOLATIONS_FOUND"
)

// ErrViolationsFound is matched with errors.Is on the handler error.
var ErrViolationsFound = errors.New("lint: error-severity violations found")

var (
	_ command.Commander[LintDirectoryCommand] = (*LintDirectoryHandler)(nil)
	_ command.Commander[ListRulesCommand]     = (*ListRulesHandler)(nil)
)

// Runner is the part of runner.Runner the lint handler needs.
type Runner interface {
	Run(ctx context.Context, root string) (*runner.Result, error)
}

// ResultHook observes every completed run.
type ResultHook func(*runner.Result)

// LintDirectoryHandler runs the linter and renders the report to its writer.
type LintDirectoryHandler struct {
	inner *commands.Handler[LintDirectoryCommand]
}

// NewLintDirectoryHandler creates a handler bound to run and out.
func NewLintDirectoryHandler(run Runner, out io.Writer, logger interfaces.Logger, hook ResultHook, opts ...commands.HandlerOption[LintDirectoryCommand]) *LintDirectoryHandler {
	baseLogger := logging.Ensure(logger)
	if out == nil {
		out = io.Discard
	}

	exec := func(ctx context.Context, msg LintDirectoryCommand) error {
		result, err := run.Run(ctx, msg.Directory)
		if err != nil {
			return err
		}
		if hook != nil {
			hook(result)
		}

		renderer, err := report.RendererFor(msg.Format, out)
		if err != nil {
			return err
		}
		if err := renderer.Render(result.Report); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "render report")
		}

		counts := result.Report.Counts()
		logging.WithRunID(logging.WithFields(baseLogger, map[string]any{
			"files":    len(result.Files),
			"errors":   counts.Errors,
			"warnings": counts.Warnings,
			"fixed":    counts.Fixed,
		}), result.RunID).Info("lint.command.completed")

		if msg.FailOnError && result.Report.HasErrors() {
			return goerrors.Wrap(ErrViolationsFound, goerrors.CategoryValidation, "lint failed").
				WithTextCode(TextCodeViolationsFound).
				WithMetadata(map[string]any{"errors": counts.Errors})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintDirectoryCommand]{
		commands.WithLogger[LintDirectoryCommand](baseLogger),
		commands.WithOperation[LintDirectoryCommand](lintOperation),
		commands.WithTimeout[LintDirectoryCommand](0),
		commands.WithMessageFields(func(msg LintDirectoryCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.Trigger != "" {
				fields["trigger"] = msg.Trigger
			}
			if len(msg.Changed) > 0 {
				fields["changed"] = len(msg.Changed)
			}
			return fields
		}),
		commands.WithTelemetry(telemetry(baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LintDirectoryCommand].
func (h *LintDirectoryHandler) Execute(ctx context.Context, msg LintDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ListRulesHandler renders the rule catalogue.
type ListRulesHandler struct {
	inner *commands.Handler[ListRulesCommand]
}

// NewListRulesHandler creates a handler over set.
func NewListRulesHandler(set *lint.RuleSet, out io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[ListRulesCommand]) *ListRulesHandler {
	baseLogger := logging.Ensure(logger)
	if out == nil {
		out = io.Discard
	}

	exec := func(_ context.Context, msg ListRulesCommand) error {
		var infos []lint.RuleInfo
		if set != nil {
			for _, rule := range set.Rules() {
				infos = append(infos, lint.Describe(rule))
			}
		}
		return report.RenderRules(msg.Format, out, infos)
	}

	handlerOpts := []commands.HandlerOption[ListRulesCommand]{
		commands.WithLogger[ListRulesCommand](baseLogger),
		commands.WithOperation[ListRulesCommand](rulesOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ListRulesHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ListRulesCommand].
func (h *ListRulesHandler) Execute(ctx context.Context, msg ListRulesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// IsViolationsFound reports whether err is the FailOnError gate.
func IsViolationsFound(err error) bool {
	return errors.Is(err, ErrViolationsFound)
}

// telemetry logs failures other than the FailOnError gate, which is an
// expected outcome rather than a fault.
func telemetry(logger interfaces.Logger) commands.Telemetry[LintDirectoryCommand] {
	fallback := commands.DefaultTelemetry[LintDirectoryCommand](logger)
	return func(ctx context.Context, msg LintDirectoryCommand, info commands.TelemetryInfo) {
		if IsViolationsFound(info.Error) {
			logging.WithFields(logger, info.Fields).Warn("lint.command.violations", "duration_ms", info.Duration.Milliseconds())
			return
		}
		fallback(ctx, msg, info)
	}
}
