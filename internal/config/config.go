// Package config loads apiguide settings from defaults, .apiguide.yaml and
// APIGUIDE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// FileName is the per-repository config file, relative to the root.
const FileName = ".apiguide.yaml"

// EnvPrefix prefixes environment overrides, e.g. APIGUIDE_WORKERS.
const EnvPrefix = "APIGUIDE"

// DefaultMaxFileSize skips files larger than 1 MB.
const DefaultMaxFileSize = 1_000_000

// Config is the complete apiguide configuration.
type Config struct {
	Exclude        []string `yaml:"exclude" mapstructure:"exclude" validate:"dive,required"`         // glob patterns relative to root
	MaxFileSize    int      `yaml:"max_file_size" mapstructure:"max_file_size" validate:"gte=0"`    // bytes; 0 disables the limit
	IncludePrivate bool     `yaml:"include_private" mapstructure:"include_private"`                 // keep @private entities
	IncludeTests   bool     `yaml:"include_tests" mapstructure:"include_tests"`                     // parse test files too
	KnownTypes     []string `yaml:"known_types" mapstructure:"known_types" validate:"dive,required"` // extra type names for type checks
	Workers        int      `yaml:"workers" mapstructure:"workers" validate:"gte=0,lte=256"`        // 0 means GOMAXPROCS
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Exclude:     []string{},
		MaxFileSize: DefaultMaxFileSize,
		KnownTypes:  []string{},
	}
}

// Load reads configuration for the repository at root with the following
// priority (highest to lowest):
// 1. Environment variables (APIGUIDE_*)
// 2. <root>/.apiguide.yaml
// 3. Default values
func Load(root string) (*Config, error) {
	v := viper.New()

	v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(root)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range []string{"exclude", "max_file_size", "include_private", "include_tests", "known_types", "workers"} {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file means defaults + env
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("max_file_size", defaults.MaxFileSize)
	v.SetDefault("include_private", defaults.IncludePrivate)
	v.SetDefault("include_tests", defaults.IncludeTests)
	v.SetDefault("known_types", defaults.KnownTypes)
	v.SetDefault("workers", defaults.Workers)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()

	// Report yaml key names so errors match the config file.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Validate checks that the configuration values are in range.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		msg := fmt.Sprintf("%s: failed %q", ve.Field(), ve.Tag())
		if ve.Param() != "" {
			msg = fmt.Sprintf("%s: failed %q (%s)", ve.Field(), ve.Tag(), ve.Param())
		}
		msgs = append(msgs, msg)
	}
	return errors.New(strings.Join(msgs, "; "))
}
