package lint

import "github.com/goliatone/go-doclint/internal/mdast"

// Rule checks nodes of the types it declares. Implementations must be safe
// for concurrent use and must not mutate the node.
type Rule interface {
	Name() string
	NodeTypes() []mdast.NodeType
	Check(node *mdast.Node) Result
}

// Describer is implemented by rules that carry a human readable summary.
type Describer interface {
	Summary() string
}

// Fixer is implemented by rules that can rewrite the source of a node that
// failed their check. Fix receives the full document source and returns
// byte-range edits against it.
type Fixer interface {
	Fix(node *mdast.Node, source []byte) []Edit
}

// RuleInfo is the static description of a registered rule.
type RuleInfo struct {
	Name      string           `json:"name"`
	NodeTypes []mdast.NodeType `json:"node_types"`
	Summary   string           `json:"summary,omitempty"`
	Fixable   bool             `json:"fixable"`
}

// Describe returns the metadata for r.
func Describe(r Rule) RuleInfo {
	info := RuleInfo{
		Name:      r.Name(),
		NodeTypes: append([]mdast.NodeType(nil), r.NodeTypes()...),
	}
	if d, ok := r.(Describer); ok {
		info.Summary = d.Summary()
	}
	_, info.Fixable = r.(Fixer)
	return info
}

type funcRule struct {
	name    string
	types   []mdast.NodeType
	summary string
	check   func(*mdast.Node) Result
}

// NewRule adapts a check function into a Rule.
func NewRule(name, summary string, check func(*mdast.Node) Result, types ...mdast.NodeType) Rule {
	return &funcRule{
		name:    name,
		types:   append([]mdast.NodeType(nil), types...),
		summary: summary,
		check:   check,
	}
}

func (r *funcRule) Name() string                { return r.name }
func (r *funcRule) NodeTypes() []mdast.NodeType { return r.types }
func (r *funcRule) Summary() string             { return r.summary }

func (r *funcRule) Check(node *mdast.Node) Result {
	if r.check == nil {
		return Pass
	}
	return r.check(node)
}
