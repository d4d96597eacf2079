package doclint_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-doclint"
	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/logging"
	"github.com/goliatone/go-doclint/internal/mdast"
)

func quietConfig() doclint.Config {
	cfg := doclint.DefaultConfig()
	cfg.Logging.Level = "fatal"
	return cfg
}

func newModule(t *testing.T, cfg doclint.Config, fsys fs.FS, opts ...doclint.Option) (*doclint.Module, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]doclint.Option{
		doclint.WithOutput(&out),
		doclint.WithFileSystem(fsys, ""),
		doclint.WithLoggerProvider(nil),
	}, opts...)
	module, err := doclint.New(cfg, opts...)
	if err != nil {
		t.Fatalf("doclint.New: %v", err)
	}
	return module, &out
}

func lintRule(name string, ok func(*mdast.Node) bool, types ...mdast.NodeType) doclint.Rule {
	return lint.NewRule(name, "", func(n *mdast.Node) lint.Result {
		if ok(n) {
			return lint.Pass
		}
		return lint.Fail(name + " failed")
	}, types...)
}

func TestModuleExecuteWritesJSONReport(t *testing.T) {
	cases := []struct {
		tokenizer string
		message   string
	}{
		{tokenizer: "whitespace", message: "First word in heading should be capitalized. Heading should be in sentence case."},
		{tokenizer: "legacy", message: "First word in heading should be capitalized."},
	}

	for _, tc := range cases {
		t.Run(tc.tokenizer, func(t *testing.T) {
			fsys := fstest.MapFS{
				"pages/a.mdx":        {Data: []byte("# hello World\n")},
				"pages/guide/b.mdx":  {Data: []byte("# Using SQL queries\n")},
				"pages/readme.md":    {Data: []byte("# lower\n")},
				"pages/img/logo.png": {Data: []byte{0x89}},
			}
			cfg := quietConfig()
			cfg.Rules.SentenceCase.Tokenizer = tc.tokenizer
			module, out := newModule(t, cfg, fsys)

			if err := module.Execute(context.Background(), doclint.LintDirectoryCommand{}); err != nil {
				t.Fatalf("execute: %v", err)
			}

			var records []doclint.Record
			if err := json.Unmarshal(out.Bytes(), &records); err != nil {
				t.Fatalf("decode report: %v\n%s", err, out.String())
			}
			want := []doclint.Record{{
				File: "pages/a.mdx",
				Error: doclint.Finding{
					Message:  tc.message,
					Severity: 2,
					Rule:     "headings-sentence-case",
					Kind:     "rule",
					Line:     1,
					Column:   1,
				},
			}}
			if diff := cmp.Diff(want, records); diff != "" {
				t.Fatalf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModuleExecuteFailOnError(t *testing.T) {
	fsys := fstest.MapFS{"pages/a.mdx": {Data: []byte("# Hello World\n")}}
	module, _ := newModule(t, quietConfig(), fsys)

	err := module.Execute(context.Background(), doclint.LintDirectoryCommand{FailOnError: true})
	if !doclint.IsViolationsFound(err) {
		t.Fatalf("expected violations error, got %v", err)
	}
	if !errors.Is(err, doclint.ErrViolationsFound) {
		t.Fatalf("expected errors.Is match, got %v", err)
	}
}

func TestModuleLintReturnsResult(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/a.mdx": {Data: []byte("# Hello world\n")},
		"docs/b.mdx": {Data: []byte("<Callout>\n")},
	}
	module, out := newModule(t, quietConfig(), fsys)

	result, err := module.Lint(context.Background(), "docs")
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected Lint not to render, got %q", out.String())
	}
	if diff := cmp.Diff([]string{"docs/a.mdx", "docs/b.mdx"}, result.Files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if len(result.Report.Records) != 1 || result.Report.Records[0].Error.Kind != "parse" {
		t.Fatalf("expected one parse record, got %#v", result.Report.Records)
	}
}

func TestModuleFrontmatterSchemaRule(t *testing.T) {
	cfg := quietConfig()
	cfg.Rules.Frontmatter.Enabled = true
	cfg.Rules.Frontmatter.Schema = filepath.Join("testdata", "page.schema.json")

	fsys := fstest.MapFS{
		"pages/ok.mdx":      {Data: []byte("---\ntitle: Intro\n---\n\n# Intro\n")},
		"pages/missing.mdx": {Data: []byte("---\nauthor: me\n---\n\n# Intro\n")},
	}
	module, _ := newModule(t, cfg, fsys)

	names := make([]string, 0)
	for _, info := range module.Rules() {
		names = append(names, info.Name)
	}
	if diff := cmp.Diff([]string{"headings-sentence-case", "frontmatter-schema"}, names); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	result, err := module.Lint(context.Background(), "pages")
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(result.Report.Records) != 1 {
		t.Fatalf("expected one schema violation, got %#v", result.Report.Records)
	}
	record := result.Report.Records[0]
	if record.File != "pages/missing.mdx" || record.Error.Rule != "frontmatter-schema" {
		t.Fatalf("unexpected record %#v", record)
	}
}

func TestModuleMissingSchemaFile(t *testing.T) {
	cfg := quietConfig()
	cfg.Rules.Frontmatter.Enabled = true
	cfg.Rules.Frontmatter.Schema = "nope.json"

	_, err := doclint.New(cfg, doclint.WithSchemaReader(func(string) ([]byte, error) {
		return nil, fs.ErrNotExist
	}))
	if err == nil {
		t.Fatal("expected schema read error")
	}
}

func TestModuleExtraRules(t *testing.T) {
	noCode := lintRule("no-code", func(n *mdast.Node) bool { return n.Type != mdast.TypeCode }, mdast.TypeCode)
	fsys := fstest.MapFS{"pages/a.mdx": {Data: []byte("# Hello\n\n```go\nx\n```\n")}}
	module, _ := newModule(t, quietConfig(), fsys, doclint.WithRules(noCode))

	result, err := module.Lint(context.Background(), "pages")
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(result.Report.Records) != 1 || result.Report.Records[0].Error.Rule != "no-code" {
		t.Fatalf("expected no-code record, got %#v", result.Report.Records)
	}
}

func TestModuleRejectsInvalidConfig(t *testing.T) {
	cfg := doclint.DefaultConfig()
	cfg.Workers = -1
	if _, err := doclint.New(cfg); !errors.Is(err, doclint.ErrWorkersInvalid) {
		t.Fatalf("expected ErrWorkersInvalid, got %v", err)
	}
}

func TestModuleListRules(t *testing.T) {
	module, out := newModule(t, quietConfig(), fstest.MapFS{})
	if err := module.ListRules(context.Background(), "text"); err != nil {
		t.Fatalf("list rules: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("headings-sentence-case [heading] fixable")) {
		t.Fatalf("unexpected listing %q", out.String())
	}
}

func TestNewLoggerProvider(t *testing.T) {
	if _, err := doclint.NewLoggerProvider(doclint.LoggingConfig{Provider: "console", Level: "debug"}); err != nil {
		t.Fatalf("console provider: %v", err)
	}
	if _, err := doclint.NewLoggerProvider(doclint.LoggingConfig{Provider: "gologger", Level: "info", Format: "json"}); err != nil {
		t.Fatalf("gologger provider: %v", err)
	}
	if _, err := doclint.NewLoggerProvider(doclint.LoggingConfig{Provider: "syslog"}); !errors.Is(err, doclint.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
	if _, err := doclint.NewLoggerProvider(doclint.LoggingConfig{Level: "loud"}); !errors.Is(err, doclint.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestLoadConfigResolvesSchemaPath(t *testing.T) {
	cfg, err := doclint.LoadConfig(filepath.Join("testdata", "doclint.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Format != "text" {
		t.Fatalf("expected text format, got %q", cfg.Format)
	}
	want := filepath.Join("testdata", "page.schema.json")
	if cfg.Rules.Frontmatter.Schema != want {
		t.Fatalf("expected schema %q, got %q", want, cfg.Rules.Frontmatter.Schema)
	}
	if _, err := os.Stat(cfg.Rules.Frontmatter.Schema); err != nil {
		t.Fatalf("resolved schema should exist: %v", err)
	}
}

func TestModuleLoggerProviderDefaultsToConsole(t *testing.T) {
	module, err := doclint.New(quietConfig(), doclint.WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("doclint.New: %v", err)
	}
	if module.LoggerProvider() == nil {
		t.Fatal("expected logger provider")
	}
	logging.ModuleLogger(module.LoggerProvider(), "doclint.test").Debug("suppressed")
}
