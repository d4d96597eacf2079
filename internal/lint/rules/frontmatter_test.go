package rules_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/lint/rules"
	"github.com/goliatone/go-doclint/internal/mdast"
)

const titleSchema = `{"type":"object","required":["title"],"properties":{"title":{"type":"string"}}}`

func TestFrontmatterSchemaRule(t *testing.T) {
	rule, err := rules.FrontmatterSchema("page.json", []byte(titleSchema))
	if err != nil {
		t.Fatalf("FrontmatterSchema: %v", err)
	}

	parser := mdast.NewParser(mdast.ParseOptions{})
	good, err := parser.Parse([]byte("---\ntitle: Database guide\n---\n\n# Guide\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !lint.IsSuccess(rule.Check(good.Children[0])) {
		t.Fatalf("expected frontmatter with title to pass")
	}

	bad, err := parser.Parse([]byte("---\ndescription: no title here\n---\n\n# Guide\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	violation, ok := lint.AsViolation(rule.Check(bad.Children[0]))
	if !ok || !strings.HasPrefix(violation.Message, "Frontmatter does not match schema: #") {
		t.Fatalf("expected schema violation, got %+v", violation)
	}
	if !strings.Contains(violation.Message, "title") {
		t.Fatalf("expected message to mention the missing property, got %s", violation.Message)
	}
}

func TestFrontmatterSchemaRejectsInvalidSchema(t *testing.T) {
	if _, err := rules.FrontmatterSchema("bad.json", []byte("{")); err == nil {
		t.Fatal("expected invalid schema error")
	}
}

func TestBuiltinIncludesFrontmatterWhenEnabled(t *testing.T) {
	cfg := rules.DefaultConfig()
	cfg.Frontmatter = rules.FrontmatterConfig{Enabled: true, SchemaName: "page.json", Schema: []byte(titleSchema)}

	set, err := rules.NewRuleSet(cfg)
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected two rules, got %d", set.Len())
	}
	if got := set.ForType(mdast.TypeYAML); len(got) != 1 || got[0].Name() != rules.FrontmatterSchemaName {
		t.Fatalf("expected frontmatter rule for yaml nodes, got %v", got)
	}
}
