package lint

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-doclint/internal/mdast"
)

var (
	// ErrRuleNameRequired rejects anonymous rules.
	ErrRuleNameRequired = errors.New("lint: rule name is required")
	// ErrDuplicateRule rejects two rules registered under the same name.
	ErrDuplicateRule = errors.New("lint: duplicate rule")
	// ErrRuleWithoutTypes rejects rules that declare no node types.
	ErrRuleWithoutTypes = errors.New("lint: rule declares no node types")
)

// RuleSet maps node types to the rules interested in them. It is immutable
// once built.
type RuleSet struct {
	rules  []Rule
	byType map[mdast.NodeType][]Rule
}

// NewRuleSet indexes rules by node type, keeping registration order within
// each type.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	set := &RuleSet{
		byType: map[mdast.NodeType][]Rule{},
	}
	seen := map[string]struct{}{}
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		name := strings.TrimSpace(rule.Name())
		if name == "" {
			return nil, ErrRuleNameRequired
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, name)
		}
		types := rule.NodeTypes()
		if len(types) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrRuleWithoutTypes, name)
		}
		seen[name] = struct{}{}
		set.rules = append(set.rules, rule)
		for _, nodeType := range dedupeTypes(types) {
			set.byType[nodeType] = append(set.byType[nodeType], rule)
		}
	}
	return set, nil
}

// MustRuleSet is NewRuleSet for static rule lists; it panics on error.
func MustRuleSet(rules ...Rule) *RuleSet {
	set, err := NewRuleSet(rules...)
	if err != nil {
		panic(err)
	}
	return set
}

// ForType returns the rules registered for t in registration order.
func (s *RuleSet) ForType(t mdast.NodeType) []Rule {
	if s == nil {
		return nil
	}
	return s.byType[t]
}

// Rules returns every registered rule in registration order.
func (s *RuleSet) Rules() []Rule {
	if s == nil {
		return nil
	}
	return append([]Rule(nil), s.rules...)
}

// Len returns the number of registered rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Lookup finds a rule by name.
func (s *RuleSet) Lookup(name string) (Rule, bool) {
	for _, rule := range s.Rules() {
		if rule.Name() == name {
			return rule, true
		}
	}
	return nil, false
}

// Types lists the node types that have at least one rule, sorted.
func (s *RuleSet) Types() []mdast.NodeType {
	if s == nil {
		return nil
	}
	out := make([]mdast.NodeType, 0, len(s.byType))
	for t := range s.byType {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func dedupeTypes(types []mdast.NodeType) []mdast.NodeType {
	out := make([]mdast.NodeType, 0, len(types))
	seen := make(map[mdast.NodeType]struct{}, len(types))
	for _, t := range types {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
