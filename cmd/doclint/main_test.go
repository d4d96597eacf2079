package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-doclint"
)

func withFS(t *testing.T, fsys fstest.MapFS) *doclint.Config {
	t.Helper()
	original := moduleBuilder
	t.Cleanup(func() { moduleBuilder = original })

	seen := &doclint.Config{}
	moduleBuilder = func(cfg doclint.Config, opts ...doclint.Option) (*doclint.Module, error) {
		*seen = cfg
		cfg.Logging.Level = "fatal"
		return doclint.New(cfg, append(opts, doclint.WithFileSystem(fsys, ""))...)
	}
	return seen
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--env-file="}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRootCommandPrintsJSONReport(t *testing.T) {
	withFS(t, fstest.MapFS{
		"pages/a.mdx": {Data: []byte("# hello World\n")},
	})

	out, err := run(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, `"file": "pages/a.mdx"`) || !strings.Contains(out, "should be capitalized") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestRootCommandCleanRunPrintsEmptyArray(t *testing.T) {
	withFS(t, fstest.MapFS{
		"docs/a.mdx": {Data: []byte("# Hello world\n")},
	})

	out, err := run(t, "docs")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "[]\n" {
		t.Fatalf("expected empty array, got %q", out)
	}
}

func TestRootCommandFailOnError(t *testing.T) {
	withFS(t, fstest.MapFS{
		"pages/a.mdx": {Data: []byte("# Hello World\n")},
	})

	if _, err := run(t); err != nil {
		t.Fatalf("expected success without --fail-on-error, got %v", err)
	}
	_, err := run(t, "--fail-on-error")
	if !errors.Is(err, errSilent) {
		t.Fatalf("expected silent failure, got %v", err)
	}
}

func TestRootCommandAppliesFlags(t *testing.T) {
	seen := withFS(t, fstest.MapFS{
		"docs/a.md": {Data: []byte("# Hello world\n")},
	})

	if _, err := run(t, "--format", "text", "--ext", ".md", "--ext", ".mdx", "--workers", "3", "--tokenizer", "legacy", "--log-level", "debug", "docs"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if seen.Format != "text" || seen.Workers != 3 || seen.Rules.SentenceCase.Tokenizer != "legacy" || seen.Logging.Level != "debug" {
		t.Fatalf("flags not applied: %+v", seen)
	}
	if strings.Join(seen.Extensions, ",") != ".md,.mdx" {
		t.Fatalf("unexpected extensions %v", seen.Extensions)
	}
}

func TestRootCommandRejectsInvalidFormat(t *testing.T) {
	withFS(t, fstest.MapFS{})

	if _, err := run(t, "--format", "xml"); !errors.Is(err, doclint.ErrFormatInvalid) {
		t.Fatalf("expected ErrFormatInvalid, got %v", err)
	}
}

func TestRulesCommand(t *testing.T) {
	withFS(t, fstest.MapFS{})

	out, err := run(t, "rules", "--format", "text")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "headings-sentence-case [heading] fixable") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
}

func TestRootArg(t *testing.T) {
	if got := rootArg(nil, "pages"); got != "pages" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := rootArg([]string{"docs"}, "pages"); got != "docs" {
		t.Fatalf("expected docs, got %q", got)
	}
}
