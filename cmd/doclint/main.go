package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-doclint"
)

var moduleBuilder = doclint.New

// errSilent marks failures whose details were already written to stdout.
var errSilent = errors.New("doclint: run failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "doclint:", err)
		}
		os.Exit(1)
	}
}

type cliFlags struct {
	configPath  string
	envFile     string
	fix         bool
	format      string
	extensions  []string
	workers     int
	failOnError bool
	tokenizer   string
	logLevel    string
	logFormat   string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:           "doclint [root]",
		Short:         "Lint MDX documentation",
		Long:          "doclint walks a content directory, checks every .mdx document against the registered rules and prints a report.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := buildModule(cmd, flags, stdout)
			if err != nil {
				return err
			}
			cfg := module.Config()
			err = module.Execute(cmd.Context(), doclint.LintDirectoryCommand{
				Directory:   rootArg(args, cfg.ContentDir),
				Format:      cfg.Format,
				FailOnError: cfg.FailOnError,
				Trigger:     "cli",
			})
			if doclint.IsViolationsFound(err) {
				return errSilent
			}
			return err
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default .doclint.yaml when present)")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading DOCLINT_* variables")
	pf.StringVar(&flags.format, "format", "", "report format: json or text")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "structured log format (json, console, pretty); switches to go-logger")

	lf := root.Flags()
	lf.BoolVarP(&flags.fix, "fix", "f", false, "rewrite files with fixes from rules that support them")
	lf.StringSliceVar(&flags.extensions, "ext", nil, "file extensions to lint (repeatable, default .mdx)")
	lf.IntVar(&flags.workers, "workers", 0, "concurrent files (default number of CPUs)")
	lf.BoolVar(&flags.failOnError, "fail-on-error", false, "exit with status 1 when an error-severity record is reported")
	lf.StringVar(&flags.tokenizer, "tokenizer", "", "heading tokenizer: whitespace or legacy")

	root.AddCommand(newWatchCommand(flags, stdout), newRulesCommand(flags, stdout))
	return root
}

func newWatchCommand(flags *cliFlags, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Re-run the linter whenever documents change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := buildModule(cmd, flags, stdout)
			if err != nil {
				return err
			}
			cfg := module.Config()
			dir := rootArg(args, cfg.ContentDir)

			sub := dispatcher.SubscribeCommand(module.LintHandler())
			defer sub.Unsubscribe()

			ctx := cmd.Context()
			initial := doclint.LintDirectoryCommand{Directory: dir, Format: cfg.Format, Trigger: "watch"}
			if err := dispatcher.Dispatch(ctx, initial); err != nil {
				return err
			}
			return module.Watch(ctx, dir, func(ctx context.Context, changed []string) error {
				return dispatcher.Dispatch(ctx, doclint.LintDirectoryCommand{
					Directory: dir,
					Format:    cfg.Format,
					Trigger:   "watch",
					Changed:   changed,
				})
			})
		},
	}
	cmd.Flags().Duration("debounce", 0, "delay before re-running after a change (default 300ms)")
	return cmd
}

func newRulesCommand(flags *cliFlags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the registered rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := buildModule(cmd, flags, stdout)
			if err != nil {
				return err
			}
			return module.ListRules(cmd.Context(), module.Config().Format)
		},
	}
}

// buildModule layers configuration as defaults, config file, environment,
// then flags, and builds the module.
func buildModule(cmd *cobra.Command, flags *cliFlags, stdout io.Writer) (*doclint.Module, error) {
	if err := loadEnvFile(flags.envFile); err != nil {
		return nil, err
	}
	cfg, err := doclint.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, flags, &cfg)
	return moduleBuilder(cfg, doclint.WithOutput(stdout))
}

func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyFlags(cmd *cobra.Command, flags *cliFlags, cfg *doclint.Config) {
	changed := cmd.Flags().Changed
	if changed("fix") {
		cfg.Fix = flags.fix
	}
	if changed("format") {
		cfg.Format = flags.format
	}
	if changed("ext") {
		cfg.Extensions = flags.extensions
	}
	if changed("workers") {
		cfg.Workers = flags.workers
	}
	if changed("fail-on-error") {
		cfg.FailOnError = flags.failOnError
	}
	if changed("tokenizer") {
		cfg.Rules.SentenceCase.Tokenizer = flags.tokenizer
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.logFormat
		cfg.Logging.Provider = "gologger"
	}
	if changed("debounce") {
		if d, err := cmd.Flags().GetDuration("debounce"); err == nil {
			cfg.Watch.Debounce = d
		}
	}
}

func rootArg(args []string, fallback string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	return fallback
}
