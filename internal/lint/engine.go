package lint

import (
	"fmt"

	"github.com/goliatone/go-doclint/internal/logging"
	"github.com/goliatone/go-doclint/internal/mdast"
	"github.com/goliatone/go-doclint/pkg/interfaces"
)

// Engine runs a RuleSet over parsed documents.
type Engine struct {
	rules  *RuleSet
	logger interfaces.Logger
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithLogger routes rule failures to logger.
func WithLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine binds set to a new engine. A nil set checks nothing.
func NewEngine(set *RuleSet, opts ...EngineOption) *Engine {
	if set == nil {
		set = MustRuleSet()
	}
	engine := &Engine{
		rules:  set,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}
	return engine
}

// RuleSet returns the rules the engine dispatches to.
func (e *Engine) RuleSet() *RuleSet {
	return e.rules
}

// Check dispatches every top-level child of doc to the rules registered for
// its type and returns one record per violation, in document then
// registration order.
func (e *Engine) Check(path string, doc *mdast.Node) []Record {
	if doc == nil {
		return nil
	}
	var records []Record
	for _, node := range doc.Children {
		if node == nil {
			continue
		}
		for _, rule := range e.rules.ForType(node.Type) {
			violation, failed := e.run(path, rule, node)
			if !failed {
				continue
			}
			records = append(records, Record{
				File: path,
				Error: Finding{
					Message:  violation.Message,
					Severity: violation.Severity,
					Rule:     rule.Name(),
					Kind:     KindRule,
					Line:     node.Position.Start.Line,
					Column:   node.Position.Start.Column,
				},
			})
		}
	}
	return records
}

// Fix collects edits from every Fixer rule whose check failed on a top-level
// node of doc. Edits are returned in document order and carry the rule name
// and node line of the record they resolve.
func (e *Engine) Fix(path string, doc *mdast.Node, source []byte) []Edit {
	if doc == nil {
		return nil
	}
	var edits []Edit
	for _, node := range doc.Children {
		if node == nil {
			continue
		}
		for _, rule := range e.rules.ForType(node.Type) {
			fixer, ok := rule.(Fixer)
			if !ok {
				continue
			}
			if _, failed := e.run(path, rule, node); !failed {
				continue
			}
			for _, edit := range fixer.Fix(node, source) {
				edit.Rule = rule.Name()
				edit.Line = node.Position.Start.Line
				edits = append(edits, edit)
			}
		}
	}
	sortEdits(edits)
	return edits
}

func (e *Engine) run(path string, rule Rule, node *mdast.Node) (violation Violation, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.WithFileContext(e.logger, path, rule.Name()).Error("lint.rule.panic", "panic", r)
			violation = Violation{
				Message:  fmt.Sprintf("rule %s failed: %v", rule.Name(), r),
				Severity: SeverityError,
			}
			failed = true
		}
	}()

	result := rule.Check(node)
	if IsSuccess(result) {
		return Violation{}, false
	}
	violation, ok := AsViolation(result)
	if !ok {
		return Violation{}, false
	}
	if !violation.Severity.Valid() {
		violation.Severity = SeverityError
	}
	return violation, true
}
