package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-doclint/internal/mdast"
)

var ErrContentDirRequired = errors.New("doclint config: content directory is required")
var ErrWorkersInvalid = errors.New("doclint config: workers must be zero or positive")
var ErrFormatInvalid = errors.New("doclint config: output format is invalid")
var ErrTokenizerInvalid = errors.New("doclint config: sentence case tokenizer is invalid")
var ErrParserExtensionUnknown = errors.New("doclint config: parser extension is unknown")
var ErrFrontmatterSchemaRequired = errors.New("doclint config: frontmatter schema path is required when the rule is enabled")
var ErrLoggingProviderUnknown = errors.New("doclint config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("doclint config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("doclint config: logging format is invalid")
var ErrDebounceInvalid = errors.New("doclint config: watch debounce must be zero or positive")

// Config is the resolved runtime configuration of a lint run. Values come
// from DefaultConfig, then the config file, then the environment, then flags.
type Config struct {
	ContentDir  string        `yaml:"content_dir"`
	Extensions  []string      `yaml:"extensions"`
	Ignore      []string      `yaml:"ignore"`
	Workers     int           `yaml:"workers"`
	Fix         bool          `yaml:"fix"`
	FailOnError bool          `yaml:"fail_on_error"`
	Format      string        `yaml:"format"`
	Parser      ParserConfig  `yaml:"parser"`
	Rules       RulesConfig   `yaml:"rules"`
	Logging     LoggingConfig `yaml:"logging"`
	Watch       WatchConfig   `yaml:"watch"`
}

// ParserConfig selects the document grammar.
type ParserConfig struct {
	Extensions  []string `yaml:"extensions"`
	MDX         bool     `yaml:"mdx"`
	FrontMatter bool     `yaml:"frontmatter"`
}

// RulesConfig configures the built-in rules.
type RulesConfig struct {
	SentenceCase SentenceCaseConfig `yaml:"headings-sentence-case"`
	Frontmatter  FrontmatterConfig  `yaml:"frontmatter-schema"`
}

// SentenceCaseConfig configures headings-sentence-case.
type SentenceCaseConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Tokenizer    string   `yaml:"tokenizer"`
	Allow        []string `yaml:"allow"`
	SkipDefaults bool     `yaml:"skip_defaults"`
}

// FrontmatterConfig configures frontmatter-schema. Schema is a path to a JSON
// schema file, relative to the config file.
type FrontmatterConfig struct {
	Enabled bool   `yaml:"enabled"`
	Schema  string `yaml:"schema"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig mirrors the behaviour of the original docs linter: lint
// .mdx files under pages/ and print JSON.
func DefaultConfig() Config {
	return Config{
		ContentDir: "pages",
		Extensions: []string{".mdx"},
		Ignore:     []string{"node_modules", ".git", ".next"},
		Format:     "json",
		Parser: ParserConfig{
			MDX:         true,
			FrontMatter: true,
		},
		Rules: RulesConfig{
			SentenceCase: SentenceCaseConfig{
				Enabled:   true,
				Tokenizer: "whitespace",
			},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "warn",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// Validate performs consistency checks that the schema cannot express.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrWorkersInvalid, cfg.Workers)
	}
	if format := strings.TrimSpace(cfg.Format); format != "" && !isSupportedOutput(format) {
		return fmt.Errorf("%w: %s", ErrFormatInvalid, format)
	}
	if cfg.Rules.SentenceCase.Enabled {
		if tok := strings.TrimSpace(cfg.Rules.SentenceCase.Tokenizer); tok != "" && !isSupportedTokenizer(tok) {
			return fmt.Errorf("%w: %s", ErrTokenizerInvalid, tok)
		}
	}
	if cfg.Rules.Frontmatter.Enabled && strings.TrimSpace(cfg.Rules.Frontmatter.Schema) == "" {
		return ErrFrontmatterSchemaRequired
	}
	for _, ext := range cfg.Parser.Extensions {
		if !mdast.KnownExtension(ext) {
			return fmt.Errorf("%w: %s", ErrParserExtensionUnknown, ext)
		}
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("%w: %s", ErrDebounceInvalid, cfg.Watch.Debounce)
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func isSupportedOutput(format string) bool {
	switch strings.ToLower(format) {
	case "json", "text":
		return true
	default:
		return false
	}
}

func isSupportedTokenizer(name string) bool {
	switch strings.ToLower(name) {
	case "whitespace", "legacy":
		return true
	default:
		return false
	}
}
