// Package config loads skillcheck settings from flags, SKILLCHECK_ environment
// variables and an optional config.yaml, with named profiles layered on top.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillcheck/pkg/validator"
)

// EnvPrefix is the prefix of every environment variable read by skillcheck.
const EnvPrefix = "SKILLCHECK"

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// BodyLines holds the body-line-count thresholds.
type BodyLines struct {
	Warn int `mapstructure:"warn"`
	Fail int `mapstructure:"fail"`
}

// Config is the resolved skillcheck configuration.
type Config struct {
	Strict      bool      `mapstructure:"strict"`
	Format      string    `mapstructure:"format"`
	Disable     []string  `mapstructure:"disable"`
	BodyLines   BodyLines `mapstructure:"body_lines"`
	MinTriggers int       `mapstructure:"min_triggers"`
	Concurrency int       `mapstructure:"concurrency"`
	LogLevel    string    `mapstructure:"log_level"`
	LogFormat   string    `mapstructure:"log_format"`

	Profile  string                    `mapstructure:"profile"`
	Profiles map[string]map[string]any `mapstructure:"profiles"`
}

// New returns a viper instance wired for skillcheck: defaults, environment
// lookup and the config file. An explicit configFile must exist; the default
// locations are optional.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
		return v, nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".skillcheck"))
	}
	v.AddConfigPath(".skillcheck")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}
	return v, nil
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("strict", false)
	v.SetDefault("format", FormatText)
	v.SetDefault("disable", []string{})
	v.SetDefault("body_lines.warn", validator.DefaultBodyLinesWarn)
	v.SetDefault("body_lines.fail", validator.DefaultBodyLinesFail)
	v.SetDefault("min_triggers", validator.DefaultMinTriggers)
	v.SetDefault("concurrency", runtime.NumCPU())
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("profile", "")
}

// Load unmarshals v and applies the active profile, if any.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to unmarshal configuration")
	}

	name := activeProfile(cfg.Profile)
	if name == "" {
		return cfg, nil
	}

	profile, ok := cfg.Profiles[name]
	if !ok {
		return cfg, errors.Errorf("profile %q not found in configuration", name)
	}
	if err := applyProfile(&cfg, profile); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func activeProfile(name string) string {
	if name == "default" {
		return ""
	}
	return name
}

func applyProfile(cfg *Config, profile map[string]any) error {
	// slices are replaced as a whole, not merged element-wise
	if _, ok := profile["disable"]; ok {
		cfg.Disable = nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(profile); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if c.Format != FormatText && c.Format != FormatJSON {
		result = multierror.Append(result, errors.Errorf("format must be %q or %q, got %q", FormatText, FormatJSON, c.Format))
	}
	if c.BodyLines.Warn <= 0 || c.BodyLines.Fail <= 0 {
		result = multierror.Append(result, errors.Errorf("body_lines limits must be positive, got warn=%d fail=%d", c.BodyLines.Warn, c.BodyLines.Fail))
	} else if c.BodyLines.Warn > c.BodyLines.Fail {
		result = multierror.Append(result, errors.Errorf("body_lines.warn (%d) exceeds body_lines.fail (%d)", c.BodyLines.Warn, c.BodyLines.Fail))
	}
	if c.MinTriggers < 0 {
		result = multierror.Append(result, errors.Errorf("min_triggers cannot be negative, got %d", c.MinTriggers))
	}
	if c.Concurrency <= 0 {
		result = multierror.Append(result, errors.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "log_level"))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		result = multierror.Append(result, errors.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat))
	}
	for _, p := range c.Disable {
		if _, err := glob.Compile(p); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "invalid disable pattern %q", p))
		}
	}

	return result.ErrorOrNil()
}

// ValidatorOptions converts the configuration into validator options.
func (c Config) ValidatorOptions() []validator.Option {
	opts := []validator.Option{
		validator.WithBodyLineLimits(c.BodyLines.Warn, c.BodyLines.Fail),
		validator.WithMinTriggers(c.MinTriggers),
		validator.WithConcurrency(c.Concurrency),
	}
	if len(c.Disable) > 0 {
		opts = append(opts, validator.WithDisabledRules(c.Disable...))
	}
	return opts
}
