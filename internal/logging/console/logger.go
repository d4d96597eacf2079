// Package console is the default logger provider of the CLI. Entries are
// single key=value lines on stderr, with the level label coloured when the
// destination is a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-doclint/internal/logging"
	"github.com/goliatone/go-doclint/pkg/interfaces"
)

// Level represents the severity attached to a log entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configuration level name onto a console Level. An empty
// name selects LevelInfo.
func ParseLevel(name string) (Level, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	switch name {
	case "":
		return LevelInfo, true
	case "WARNING":
		return LevelWarn, true
	}
	for i, label := range levelNames {
		if label == name {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// Options configures the console logger provider.
type Options struct {
	// Writer defaults to os.Stderr so stdout stays reserved for reports.
	Writer   io.Writer
	TimeFunc func() time.Time
	// MinLevel defaults to LevelInfo.
	MinLevel *Level
}

type sink struct {
	mu       sync.Mutex
	w        io.Writer
	clock    func() time.Time
	minLevel Level
	styles   [len(levelNames)]lipgloss.Style
}

// NewProvider constructs a console-backed logger provider.
func NewProvider(opts Options) interfaces.LoggerProvider {
	s := &sink{
		w:        opts.Writer,
		clock:    opts.TimeFunc,
		minLevel: LevelInfo,
	}
	if s.w == nil {
		s.w = os.Stderr
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if opts.MinLevel != nil {
		s.minLevel = *opts.MinLevel
	}

	renderer := lipgloss.NewRenderer(s.w)
	s.styles = [len(levelNames)]lipgloss.Style{
		LevelTrace: renderer.NewStyle().Faint(true),
		LevelDebug: renderer.NewStyle().Faint(true),
		LevelInfo:  renderer.NewStyle().Foreground(lipgloss.Color("#4FC3F7")),
		LevelWarn:  renderer.NewStyle().Foreground(lipgloss.Color("#FBC02D")),
		LevelError: renderer.NewStyle().Foreground(lipgloss.Color("#E53935")).Bold(true),
		LevelFatal: renderer.NewStyle().Foreground(lipgloss.Color("#E53935")).Bold(true),
	}
	return s
}

func (s *sink) GetLogger(name string) interfaces.Logger {
	return &consoleLogger{sink: s, name: name}
}

func (s *sink) write(level Level, name, msg string, fields map[string]any) {
	if level < s.minLevel {
		return
	}
	var b strings.Builder
	b.WriteString(s.clock().UTC().Format(time.RFC3339Nano))
	b.WriteByte(' ')
	label := level.String()
	if int(level) < len(s.styles) {
		b.WriteString(s.styles[level].Render(label))
	} else {
		b.WriteString(label)
	}
	b.WriteString(strings.Repeat(" ", 5-len(label)))
	if name != "" {
		b.WriteString(" [")
		b.WriteString(name)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[key]))
	}
	b.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, b.String())
}

type consoleLogger struct {
	sink   *sink
	name   string
	fields map[string]any
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*consoleLogger)(nil)
	_ interfaces.FieldsLogger = (*consoleLogger)(nil)
)

func (l *consoleLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *consoleLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *consoleLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *consoleLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *consoleLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }
func (l *consoleLogger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args) }

func (l *consoleLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	child := *l
	child.fields = make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(child.fields, l.fields)
	maps.Copy(child.fields, fields)
	return &child
}

func (l *consoleLogger) WithContext(ctx context.Context) interfaces.Logger {
	child := *l
	child.ctx = ctx
	return &child
}

// log merges logger fields, context fields and call arguments, later
// sources winning. The module field is dropped when it repeats the logger
// name already printed in brackets.
func (l *consoleLogger) log(level Level, msg string, args []any) {
	if l.sink == nil || level < l.sink.minLevel {
		return
	}
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	maps.Copy(fields, l.fields)
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields["arg"+strconv.Itoa(i)] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg" + strconv.Itoa(i)
		}
		fields[key] = args[i+1]
	}
	if module, ok := fields["module"].(string); ok && module == l.name {
		delete(fields, "module")
	}
	l.sink.write(level, l.name, msg, fields)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quote(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case error:
		return quote(v.Error())
	case fmt.Stringer:
		return quote(v.String())
	default:
		return quote(fmt.Sprint(v))
	}
}

func quote(value string) string {
	if value == "" || strings.ContainsFunc(value, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(value)
	}
	return value
}
