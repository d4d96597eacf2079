package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-doclint/internal/lint"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// Renderer writes a report to its destination.
type Renderer interface {
	Render(Report) error
}

// RendererFor returns the renderer registered for format. Empty selects JSON.
func RendererFor(format string, w io.Writer) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return NewJSONRenderer(w), nil
	case FormatText:
		return NewTextRenderer(w), nil
	default:
		return nil, fmt.Errorf("report: unsupported format %q", format)
	}
}

// SupportedFormat reports whether format names a renderer.
func SupportedFormat(format string) bool {
	_, err := RendererFor(format, io.Discard)
	return err == nil
}

// JSONRenderer writes the records as a two-space indented array.
type JSONRenderer struct {
	w io.Writer
}

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w}
}

// Render always emits an array, "[]" for a clean run.
func (r *JSONRenderer) Render(rep Report) error {
	records := rep.Records
	if records == nil {
		records = []Record{}
	}
	payload, err := encodeJSON(records)
	if err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	if _, err := r.w.Write(payload); err != nil {
		return fmt.Errorf("report: write json: %w", err)
	}
	return nil
}

// encodeJSON indents v and keeps <, > and & literal so component names in
// messages read as written.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TextRenderer writes one line per record plus a summary, styled when the
// destination is a terminal.
type TextRenderer struct {
	w       io.Writer
	file    lipgloss.Style
	errorS  lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	renderer := lipgloss.NewRenderer(w)
	return &TextRenderer{
		w:       w,
		file:    renderer.NewStyle().Bold(true),
		errorS:  renderer.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("#fbc02d")),
		muted:   renderer.NewStyle().Faint(true),
		ok:      renderer.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
	}
}

func (r *TextRenderer) Render(rep Report) error {
	var sb strings.Builder
	for _, record := range rep.Records {
		sb.WriteString(r.file.Render(location(record)))
		sb.WriteByte(' ')
		sb.WriteString(r.severity(record.Error.Severity))
		sb.WriteByte(' ')
		sb.WriteString(record.Error.Message)
		if tag := tagFor(record); tag != "" {
			sb.WriteByte(' ')
			sb.WriteString(r.muted.Render("(" + tag + ")"))
		}
		if record.Fixed {
			sb.WriteByte(' ')
			sb.WriteString(r.ok.Render("[fixed]"))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(r.summary(rep.Counts()))
	sb.WriteByte('\n')

	if _, err := io.WriteString(r.w, sb.String()); err != nil {
		return fmt.Errorf("report: write text: %w", err)
	}
	return nil
}

func (r *TextRenderer) severity(s lint.Severity) string {
	if s >= lint.SeverityError {
		return r.errorS.Render(s.String())
	}
	return r.warning.Render(s.String())
}

func (r *TextRenderer) summary(c Counts) string {
	if c.Errors == 0 && c.Warnings == 0 {
		return r.ok.Render("no problems found")
	}
	line := fmt.Sprintf("%d error(s), %d warning(s) in %d file(s)", c.Errors, c.Warnings, c.Files)
	if c.Fixed > 0 {
		line += fmt.Sprintf(", %d fixed", c.Fixed)
	}
	if c.Errors > 0 {
		return r.errorS.Render(line)
	}
	return r.warning.Render(line)
}

func location(record Record) string {
	if record.Error.Line == 0 {
		return record.File
	}
	return fmt.Sprintf("%s:%d:%d", record.File, record.Error.Line, record.Error.Column)
}

func tagFor(record Record) string {
	if record.Error.Rule != "" {
		return record.Error.Rule
	}
	if record.Error.Kind != lint.KindRule {
		return string(record.Error.Kind)
	}
	return ""
}
