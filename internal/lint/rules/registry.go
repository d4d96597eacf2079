package rules

import (
	"fmt"

	"github.com/goliatone/go-doclint/internal/lint"
)

// Config selects and configures the built-in rules.
type Config struct {
	SentenceCase SentenceCaseConfig
	Frontmatter  FrontmatterConfig
}

// SentenceCaseConfig mirrors the headings-sentence-case settings of the
// runtime configuration.
type SentenceCaseConfig struct {
	Enabled      bool
	Tokenizer    string
	Allow        []string
	SkipDefaults bool
}

// FrontmatterConfig enables frontmatter validation with an already loaded
// schema document.
type FrontmatterConfig struct {
	Enabled    bool
	SchemaName string
	Schema     []byte
}

// DefaultConfig enables the built-in rules that need no external input.
func DefaultConfig() Config {
	return Config{
		SentenceCase: SentenceCaseConfig{
			Enabled:   true,
			Tokenizer: string(TokenizeWhitespace),
		},
	}
}

// Builtin returns the enabled built-in rules in registration order.
func Builtin(cfg Config) ([]lint.Rule, error) {
	var out []lint.Rule
	if cfg.SentenceCase.Enabled {
		tokenizer, err := ParseTokenizer(cfg.SentenceCase.Tokenizer)
		if err != nil {
			return nil, err
		}
		out = append(out, HeadingsSentenceCase(SentenceCaseOptions{
			Tokenizer:    tokenizer,
			Allow:        cfg.SentenceCase.Allow,
			SkipDefaults: cfg.SentenceCase.SkipDefaults,
		}))
	}
	if cfg.Frontmatter.Enabled {
		rule, err := FrontmatterSchema(cfg.Frontmatter.SchemaName, cfg.Frontmatter.Schema)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

// NewRuleSet builds the immutable rule table for cfg.
func NewRuleSet(cfg Config) (*lint.RuleSet, error) {
	builtin, err := Builtin(cfg)
	if err != nil {
		return nil, err
	}
	set, err := lint.NewRuleSet(builtin...)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return set, nil
}
