package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-doclint/internal/logging"
)

func TestProviderSharesNamedChildren(t *testing.T) {
	p, err := NewProvider(Config{Level: "warning", Format: "console", Focus: []string{" doclint.runner ", ""}})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	first := p.GetLogger("doclint.runner")
	if first == nil {
		t.Fatal("expected logger, got nil")
	}
	if again := p.GetLogger(" doclint.runner"); again != first {
		t.Fatal("expected the same child for the same name")
	}
	if other := p.GetLogger("doclint.watch"); other == first {
		t.Fatal("expected distinct children per name")
	}
	if p.GetLogger("") == nil {
		t.Fatal("expected root logger for empty name")
	}

	logging.WithFields(first, map[string]any{"file": "pages/a.mdx"}).Debug("runner.file.checked")
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	if p.GetLogger("doclint") == nil {
		t.Fatal("expected no-op logger")
	}
}

func TestLoggerOptions(t *testing.T) {
	cases := []struct {
		cfg  Config
		want int
	}{
		{Config{}, 1},
		{Config{Level: "debug", Format: "pretty"}, 2},
		{Config{Level: "loud", Format: "json", AddSource: true}, 2},
	}
	for _, tc := range cases {
		opts, err := loggerOptions(tc.cfg)
		if err != nil {
			t.Fatalf("loggerOptions(%+v): %v", tc.cfg, err)
		}
		if len(opts) != tc.want {
			t.Fatalf("loggerOptions(%+v): expected %d options, got %d", tc.cfg, tc.want, len(opts))
		}
	}
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"file": "pages/a.mdx"}
	child := logging.WithFields(adapted, fields)
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	fields["file"] = "pages/b.mdx"
	if len(stub.fields) != 1 {
		t.Fatalf("expected fields to be recorded once, got %d", len(stub.fields))
	}
	if stub.fields[0]["file"] != "pages/a.mdx" {
		t.Fatalf("expected fields to be cloned, got %v", stub.fields[0]["file"])
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	wantCalls := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %d", len(wantCalls), len(stub.calls))
	}
	for i, want := range wantCalls {
		if stub.calls[i] != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

func TestAdapterPromotesContextFields(t *testing.T) {
	stub := &stubLogger{}
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"run_id": "run-1"})

	wrap(stub).WithContext(ctx)

	if len(stub.contexts) != 1 {
		t.Fatalf("expected context propagation, got %d", len(stub.contexts))
	}
	if len(stub.fields) != 1 || stub.fields[0]["run_id"] != "run-1" {
		t.Fatalf("expected run_id field from context, got %#v", stub.fields)
	}
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
