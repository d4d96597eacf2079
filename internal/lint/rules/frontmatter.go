package rules

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-doclint/internal/lint"
	"github.com/goliatone/go-doclint/internal/mdast"
	"github.com/goliatone/go-doclint/internal/validation"
)

// FrontmatterSchemaName is the registered name of the frontmatter rule.
const FrontmatterSchemaName = "frontmatter-schema"

type frontmatterSchema struct {
	schema *validation.Schema
}

// FrontmatterSchema validates the YAML frontmatter of a document against a
// JSON schema. Documents without frontmatter are not checked.
func FrontmatterSchema(name string, schema []byte) (lint.Rule, error) {
	compiled, err := validation.Compile(name, schema)
	if err != nil {
		return nil, fmt.Errorf("rules: %s: %w", FrontmatterSchemaName, err)
	}
	return &frontmatterSchema{schema: compiled}, nil
}

func (r *frontmatterSchema) Name() string { return FrontmatterSchemaName }

func (r *frontmatterSchema) NodeTypes() []mdast.NodeType {
	return []mdast.NodeType{mdast.TypeYAML}
}

func (r *frontmatterSchema) Summary() string {
	return "frontmatter matches the configured JSON schema"
}

func (r *frontmatterSchema) Check(node *mdast.Node) lint.Result {
	data := node.Data
	if data == nil {
		data = map[string]any{}
	}
	err := r.schema.Validate(data)
	if err == nil {
		return lint.Pass
	}
	issues := validation.Issues(err)
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, issue.String())
	}
	return lint.Fail("Frontmatter does not match schema: " + strings.Join(parts, "; "))
}
