package lintcmd

import (
	"errors"
	"testing"

	"github.com/goliatone/go-doclint/internal/commands"
	"github.com/goliatone/go-doclint/internal/commands/fixtures"
)

func TestRegisterLintCommandsRegistersHandlers(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()

	set, err := RegisterLintCommands(reg, Dependencies{Runner: &stubRunner{}})
	if err != nil {
		t.Fatalf("register lint commands: %v", err)
	}
	if set == nil || set.Lint == nil || set.Rules == nil {
		t.Fatalf("expected lint and rules handlers, got %#v", set)
	}
	if len(reg.Handlers) != 2 {
		t.Fatalf("expected two handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.Lint || reg.Handlers[1] != set.Rules {
		t.Fatalf("unexpected registration order %#v", reg.Handlers)
	}
}

func TestRegisterLintCommandsHandlerOptionsApplied(t *testing.T) {
	lintApplied := false
	rulesApplied := false

	_, err := RegisterLintCommands(nil, Dependencies{Runner: &stubRunner{}},
		WithLintHandlerOptions(func(h *commands.Handler[LintDirectoryCommand]) { lintApplied = true }),
		WithRulesHandlerOptions(func(h *commands.Handler[ListRulesCommand]) { rulesApplied = true }),
	)
	if err != nil {
		t.Fatalf("register lint commands: %v", err)
	}
	if !lintApplied || !rulesApplied {
		t.Fatalf("expected handler options applied (lint=%v rules=%v)", lintApplied, rulesApplied)
	}
}

func TestRegisterLintCommandsNilRunner(t *testing.T) {
	if _, err := RegisterLintCommands(nil, Dependencies{}); err == nil {
		t.Fatal("expected error when runner is nil")
	}
}

func TestRegisterLintCommandsRegistryError(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	reg.Fail(errors.New("closed"))
	if _, err := RegisterLintCommands(reg, Dependencies{Runner: &stubRunner{}}); err == nil {
		t.Fatal("expected registry error")
	}
}
