package doclint

import "github.com/goliatone/go-doclint/internal/runtimeconfig"

var (
	ErrContentDirRequired        = runtimeconfig.ErrContentDirRequired
	ErrWorkersInvalid            = runtimeconfig.ErrWorkersInvalid
	ErrFormatInvalid             = runtimeconfig.ErrFormatInvalid
	ErrTokenizerInvalid          = runtimeconfig.ErrTokenizerInvalid
	ErrParserExtensionUnknown    = runtimeconfig.ErrParserExtensionUnknown
	ErrFrontmatterSchemaRequired = runtimeconfig.ErrFrontmatterSchemaRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
	ErrDebounceInvalid           = runtimeconfig.ErrDebounceInvalid
)

type (
	Config             = runtimeconfig.Config
	ParserConfig       = runtimeconfig.ParserConfig
	RulesConfig        = runtimeconfig.RulesConfig
	SentenceCaseConfig = runtimeconfig.SentenceCaseConfig
	FrontmatterConfig  = runtimeconfig.FrontmatterConfig
	LoggingConfig      = runtimeconfig.LoggingConfig
	WatchConfig        = runtimeconfig.WatchConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads path (or .doclint.yaml when empty) and applies the
// DOCLINT_* environment overrides. Relative paths inside the file are
// resolved against its directory.
func LoadConfig(path string) (Config, error) {
	cfg, dir, err := runtimeconfig.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.Rules.Frontmatter.Schema = runtimeconfig.ResolvePath(dir, cfg.Rules.Frontmatter.Schema)
	return runtimeconfig.ApplyEnv(cfg, nil)
}
