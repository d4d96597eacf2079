package runtimeconfig

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-doclint/internal/validation"
)

// DefaultFileName is looked up in the working directory when no config path
// is given.
const DefaultFileName = ".doclint.yaml"

// TextCodeConfigInvalid tags every configuration error.
const TextCodeConfigInvalid = "DOCLINT_CONFIG_INVALID"

//go:embed schema.json
var schemaDocument []byte

var configSchema = validation.MustCompile("doclint-config.json", schemaDocument)

// Environment variables that override file values.
const (
	EnvLogLevel  = "DOCLINT_LOG_LEVEL"
	EnvLogFormat = "DOCLINT_LOG_FORMAT"
	EnvWorkers   = "DOCLINT_WORKERS"
)

// Load reads the config file at path on top of DefaultConfig. An empty path
// tries DefaultFileName and silently falls back to defaults when it is absent.
// The returned directory is where relative paths in the file resolve from.
func Load(path string) (Config, string, error) {
	cfg := DefaultConfig()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, ".", nil
		}
		return cfg, "", configError(err, "read "+path)
	}

	cfg, err = Parse(data)
	if err != nil {
		return cfg, "", configError(err, "load "+path)
	}
	return cfg, filepath.Dir(path), nil
}

// Parse decodes a YAML config document, validates it against the embedded
// schema and overlays it onto DefaultConfig.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, configError(err, "decode yaml")
	}
	if raw == nil {
		return cfg, nil
	}
	if err := configSchema.Validate(raw); err != nil {
		return cfg, configError(err, "schema")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, configError(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, configError(err, "validate")
	}
	return cfg, nil
}

// LookupFunc resolves environment variables.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides logging and worker settings from the environment.
func ApplyEnv(cfg Config, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if value, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(value) != "" {
		cfg.Logging.Level = strings.TrimSpace(value)
	}
	if value, ok := lookup(EnvLogFormat); ok && strings.TrimSpace(value) != "" {
		cfg.Logging.Format = strings.TrimSpace(value)
		if normalizeProvider(cfg.Logging.Provider) == "console" {
			cfg.Logging.Provider = "gologger"
		}
	}
	if value, ok := lookup(EnvWorkers); ok && strings.TrimSpace(value) != "" {
		workers, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return cfg, configError(err, EnvWorkers)
		}
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return cfg, configError(err, "environment")
	}
	return cfg, nil
}

// ResolvePath joins a config-relative path onto dir.
func ResolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

// IsConfigError reports whether err came from loading configuration.
func IsConfigError(err error) bool {
	var wrapped *goerrors.Error
	return errors.As(err, &wrapped) && wrapped.TextCode == TextCodeConfigInvalid
}

func configError(err error, step string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "doclint config: "+step).
		WithTextCode(TextCodeConfigInvalid)
}

