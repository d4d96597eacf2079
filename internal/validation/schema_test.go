package validation

import (
	"errors"
	"strings"
	"testing"
)

const pageSchema = `{
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "tags": {"type": "array", "items": {"type": "string"}},
    "meta": {"type": "object", "properties": {"order": {"type": "integer"}}}
  }
}`

func TestSchemaValidateAcceptsYAMLShapes(t *testing.T) {
	schema := MustCompile("page.json", []byte(pageSchema))
	doc := map[string]any{
		"title": "Database guide",
		"tags":  []any{"postgres", "sql"},
		"meta":  map[any]any{"order": 3},
	}
	if err := schema.Validate(doc); err != nil {
		t.Fatalf("expected document to validate, got %v", err)
	}
}

func TestSchemaValidateReportsLocatedIssues(t *testing.T) {
	schema := MustCompile("page.json", []byte(pageSchema))
	err := schema.Validate(map[string]any{"tags": []any{"ok", 7}})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %+v", issues)
	}
	if !strings.Contains(err.Error(), "#/tags/1") {
		t.Fatalf("expected issue location in message, got %s", err.Error())
	}
}

func TestCompileRejectsInvalidSchema(t *testing.T) {
	if _, err := Compile("broken.json", []byte(`{"type": 12}`)); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestIssueString(t *testing.T) {
	if got := (ValidationIssue{Location: "/workers", Message: "must be >= 0"}).String(); got != "#/workers: must be >= 0" {
		t.Fatalf("unexpected issue string %q", got)
	}
	if got := (ValidationIssue{}).String(); got != "#" {
		t.Fatalf("unexpected empty issue string %q", got)
	}
}
