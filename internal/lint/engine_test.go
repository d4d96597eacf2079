package lint_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/mdast"
)

type countingRule struct {
	name   string
	types  []mdast.NodeType
	result lint.Result
	seen   []mdast.NodeType
}

func (r *countingRule) Name() string                { return r.name }
func (r *countingRule) NodeTypes() []mdast.NodeType { return r.types }
func (r *countingRule) Check(node *mdast.Node) lint.Result {
	r.seen = append(r.seen, node.Type)
	return r.result
}

func headingDoc(texts ...string) *mdast.Node {
	root := &mdast.Node{Type: mdast.TypeRoot}
	for i, text := range texts {
		root.Children = append(root.Children, &mdast.Node{
			Type:     mdast.TypeHeading,
			Depth:    1,
			Children: []*mdast.Node{{Type: mdast.TypeText, Value: text}},
			Position: mdast.Position{Start: mdast.Point{Line: i*2 + 1, Column: 1}},
		})
	}
	return root
}

func TestEngineOnlyDispatchesDeclaredTypes(t *testing.T) {
	rule := &countingRule{name: "headings", types: []mdast.NodeType{mdast.TypeHeading}, result: lint.Pass}
	set := lint.MustRuleSet(rule)
	doc := &mdast.Node{Type: mdast.TypeRoot, Children: []*mdast.Node{
		{Type: mdast.TypeParagraph},
		{Type: mdast.TypeHeading},
		{Type: mdast.TypeMdxJsxFlow},
		{Type: mdast.TypeHeading},
	}}

	records := lint.NewEngine(set).Check("pages/a.mdx", doc)
	if len(records) != 0 {
		t.Fatalf("expected no records, got %v", records)
	}
	if diff := cmp.Diff([]mdast.NodeType{mdast.TypeHeading, mdast.TypeHeading}, rule.seen); diff != "" {
		t.Fatalf("unexpected dispatch (-want +got):\n%s", diff)
	}
}

func TestEngineSkipsNestedNodes(t *testing.T) {
	rule := &countingRule{name: "headings", types: []mdast.NodeType{mdast.TypeHeading}, result: lint.Fail("nope")}
	doc := &mdast.Node{Type: mdast.TypeRoot, Children: []*mdast.Node{
		{Type: mdast.TypeBlockquote, Children: []*mdast.Node{{Type: mdast.TypeHeading}}},
	}}

	if records := lint.NewEngine(lint.MustRuleSet(rule)).Check("a.mdx", doc); len(records) != 0 {
		t.Fatalf("expected nested headings to be ignored, got %v", records)
	}
}

func TestEngineRecordsViolationsInRegistrationOrder(t *testing.T) {
	first := &countingRule{name: "first", types: []mdast.NodeType{mdast.TypeHeading}, result: lint.Warn("first failed")}
	second := &countingRule{name: "second", types: []mdast.NodeType{mdast.TypeHeading}, result: lint.Fail("second failed")}
	engine := lint.NewEngine(lint.MustRuleSet(first, second))

	got := engine.Check("pages/a.mdx", headingDoc("Title"))
	want := []lint.Record{
		{File: "pages/a.mdx", Error: lint.Finding{Message: "first failed", Severity: lint.SeverityWarning, Rule: "first", Kind: lint.KindRule, Line: 1, Column: 1}},
		{File: "pages/a.mdx", Error: lint.Finding{Message: "second failed", Severity: lint.SeverityError, Rule: "second", Kind: lint.KindRule, Line: 1, Column: 1}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestEngineCheckIsIdempotent(t *testing.T) {
	rule := lint.NewRule("always", "always fails", func(*mdast.Node) lint.Result {
		return lint.Fail("always")
	}, mdast.TypeHeading)
	engine := lint.NewEngine(lint.MustRuleSet(rule))
	doc := headingDoc("a", "b", "c")

	first := engine.Check("x.mdx", doc)
	second := engine.Check("x.mdx", doc)
	if len(first) != 3 {
		t.Fatalf("expected 3 records, got %d", len(first))
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("expected identical runs (-first +second):\n%s", diff)
	}
}

func TestEngineRecoversFromPanickingRule(t *testing.T) {
	rule := lint.NewRule("boom", "", func(*mdast.Node) lint.Result {
		panic("unexpected node")
	}, mdast.TypeHeading)

	records := lint.NewEngine(lint.MustRuleSet(rule)).Check("a.mdx", headingDoc("x"))
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].Error.Severity != lint.SeverityError || records[0].Error.Rule != "boom" {
		t.Fatalf("unexpected record %+v", records[0])
	}
}

func TestEngineNilDocument(t *testing.T) {
	if records := lint.NewEngine(nil).Check("a.mdx", nil); records != nil {
		t.Fatalf("expected nil records, got %v", records)
	}
}

func TestNewRuleSetRejectsDuplicatesAndUntypedRules(t *testing.T) {
	a := lint.NewRule("same", "", nil, mdast.TypeHeading)
	b := lint.NewRule("same", "", nil, mdast.TypeParagraph)
	if _, err := lint.NewRuleSet(a, b); !errors.Is(err, lint.ErrDuplicateRule) {
		t.Fatalf("expected ErrDuplicateRule, got %v", err)
	}
	if _, err := lint.NewRuleSet(lint.NewRule("untyped", "", nil)); !errors.Is(err, lint.ErrRuleWithoutTypes) {
		t.Fatalf("expected ErrRuleWithoutTypes, got %v", err)
	}
	if _, err := lint.NewRuleSet(lint.NewRule(" ", "", nil, mdast.TypeHeading)); !errors.Is(err, lint.ErrRuleNameRequired) {
		t.Fatalf("expected ErrRuleNameRequired, got %v", err)
	}
}

func TestRuleSetIndexesByType(t *testing.T) {
	multi := lint.NewRule("multi", "", nil, mdast.TypeHeading, mdast.TypeParagraph, mdast.TypeHeading)
	set := lint.MustRuleSet(multi)

	if got := len(set.ForType(mdast.TypeHeading)); got != 1 {
		t.Fatalf("expected duplicate type declarations to collapse, got %d", got)
	}
	if diff := cmp.Diff([]mdast.NodeType{mdast.TypeHeading, mdast.TypeParagraph}, set.Types()); diff != "" {
		t.Fatalf("unexpected types (-want +got):\n%s", diff)
	}
	if _, ok := set.Lookup("multi"); !ok {
		t.Fatalf("expected lookup to find rule")
	}
	rules := set.Rules()
	rules[0] = nil
	if set.Rules()[0] == nil {
		t.Fatalf("expected Rules to return a copy")
	}
}
