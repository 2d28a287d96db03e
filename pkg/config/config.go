package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/envrender/pkg/errors"
	"github.com/arthur-debert/envrender/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

const (
	// EnvPrefix is the prefix of environment variables read as configuration
	EnvPrefix = "ENVRENDER_"

	// EnvRoot names the working root. It is consumed by pkg/paths and is
	// not a configuration key.
	EnvRoot = EnvPrefix + "ROOT"
)

// RootConfigFiles are the file names looked up at the working root, in order
var RootConfigFiles = []string{".envrender.toml", "envrender.toml"}

// Config is the effective envrender configuration
type Config struct {
	// EnvFile is the environment file, relative to the root unless absolute
	EnvFile string `koanf:"env_file" toml:"env_file"`

	Output OutputConfig `koanf:"output" toml:"output"`

	// Bindings replaces the built-in template registry when non-empty
	Bindings []BindingConfig `koanf:"bindings" toml:"bindings,omitempty"`

	// source is the root config file that was applied, if any
	source string
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"`
	// Styles is a YAML file replacing the built-in terminal styles
	Styles string `koanf:"styles" toml:"styles,omitempty"`
}

// BindingConfig declares a template and the file it renders to
type BindingConfig struct {
	Template string `koanf:"template" toml:"template"`
	Output   string `koanf:"output" toml:"output"`
}

// Source returns the root config file that was loaded, or "" when none was
func (c *Config) Source() string {
	return c.source
}

// Load builds the configuration for the given working root.
func Load(root string) (*Config, error) {
	return LoadWithOverrides(root, nil)
}

// LoadWithOverrides builds the configuration and applies overrides last.
// Override keys use the koanf path form, e.g. "env_file" or "output.format".
// Empty string values are ignored so unset flags do not clobber lower layers.
func LoadWithOverrides(root string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Root config if it exists
	source := FindRootConfig(root)
	if source != "" {
		if err := k.Load(file.Provider(source), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", source).
				WithDetail("path", source)
		}
		logger.Debug().Str("path", source).Msg("Loaded root config")
	}

	// 3. Environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Explicit overrides (command line flags)
	if applied := nonEmpty(overrides); len(applied) > 0 {
		if err := k.Load(confmap.Provider(applied, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
		logger.Debug().Interface("overrides", applied).Msg("Applied overrides")
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("env_file", cfg.EnvFile).
		Str("format", cfg.Output.Format).
		Int("bindings", len(cfg.Bindings)).
		Msg("Configuration loaded")

	return &cfg, nil
}

func nonEmpty(overrides map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(overrides))
	for key, value := range overrides {
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// FindRootConfig returns the first root config file present under root
func FindRootConfig(root string) string {
	for _, name := range RootConfigFiles {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// envKey maps ENVRENDER_ENV_FILE to env_file and ENVRENDER_OUTPUT_FORMAT to
// output.format. ENVRENDER_ROOT is skipped.
func envKey(s string) string {
	if s == EnvRoot {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "output_"); ok {
		return "output." + rest
	}
	return key
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if strings.TrimSpace(c.EnvFile) == "" {
		return errors.New(errors.ErrConfigValid, "env_file must not be empty")
	}
	for i, b := range c.Bindings {
		if b.Template == "" {
			return errors.Newf(errors.ErrConfigValid, "binding %d has no template", i+1).
				WithDetail("index", i)
		}
		if b.Output == "" {
			return errors.Newf(errors.ErrConfigValid, "binding %d has no output", i+1).
				WithDetail("index", i)
		}
	}
	return nil
}

// TOML renders the configuration as a TOML document
func (c *Config) TOML() (string, error) {
	data, err := gotoml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return string(data), nil
}
