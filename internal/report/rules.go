package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-doclint/internal/lint"
)

// RenderRules writes the registered rule catalogue in format.
func RenderRules(format string, w io.Writer, rules []lint.RuleInfo) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		if rules == nil {
			rules = []lint.RuleInfo{}
		}
		payload, err := encodeJSON(rules)
		if err != nil {
			return fmt.Errorf("report: encode rules: %w", err)
		}
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("report: write rules: %w", err)
		}
		return nil
	case FormatText:
		return renderRulesText(w, rules)
	default:
		return fmt.Errorf("report: unsupported format %q", format)
	}
}

func renderRulesText(w io.Writer, rules []lint.RuleInfo) error {
	renderer := lipgloss.NewRenderer(w)
	name := renderer.NewStyle().Bold(true)
	muted := renderer.NewStyle().Faint(true)

	var sb strings.Builder
	for _, info := range rules {
		types := make([]string, len(info.NodeTypes))
		for i, t := range info.NodeTypes {
			types[i] = string(t)
		}
		sb.WriteString(name.Render(info.Name))
		sb.WriteByte(' ')
		sb.WriteString(muted.Render("[" + strings.Join(types, ",") + "]"))
		if info.Fixable {
			sb.WriteString(" fixable")
		}
		if info.Summary != "" {
			sb.WriteString("\n  ")
			sb.WriteString(info.Summary)
		}
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("report: write rules: %w", err)
	}
	return nil
}
