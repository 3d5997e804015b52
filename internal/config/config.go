// Package config loads benchtime settings from defaults, an optional YAML
// file and BENCHTIME_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/psantana5/benchtime/pkg/autotimer"
	"github.com/psantana5/benchtime/pkg/report"
)

// EnvPrefix is prepended to every environment variable, e.g. BENCHTIME_REPEAT.
const EnvPrefix = "BENCHTIME"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the merged configuration.
type Config struct {
	Precision   int     `mapstructure:"precision"`
	Repeat      int     `mapstructure:"repeat"`
	Verbose     bool    `mapstructure:"verbose"`
	DisableGC   bool    `mapstructure:"disable_gc"` // scoped timer only
	Threshold   float64 `mapstructure:"threshold"`
	MaxExponent int     `mapstructure:"max_exponent"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Output    string `mapstructure:"output"`

	MetricsAddr  string `mapstructure:"metrics_addr"`
	Hold         bool   `mapstructure:"hold"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("precision", autotimer.DefaultPrecision)
	v.SetDefault("repeat", autotimer.DefaultRepeat)
	v.SetDefault("verbose", true)
	v.SetDefault("disable_gc", true)
	v.SetDefault("threshold", autotimer.DefaultThreshold)
	v.SetDefault("max_exponent", autotimer.DefaultMaxExponent)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("output", report.FormatText)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("hold", false)
	v.SetDefault("otlp_endpoint", "")
}

// Prepare points v at the config file and the environment. An empty
// cfgFile means $HOME/.benchtime/config.yaml, which may be absent.
func Prepare(v *viper.Viper, cfgFile string) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".benchtime"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads the config file if there is one and decodes v.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Precision < 1:
		return fmt.Errorf("%w: precision must be >= 1", ErrInvalidConfig)
	case c.Repeat < 1:
		return fmt.Errorf("%w: repeat must be >= 1", ErrInvalidConfig)
	case c.Threshold <= 0:
		return fmt.Errorf("%w: threshold must be > 0", ErrInvalidConfig)
	case c.MaxExponent < 1 || c.MaxExponent > autotimer.MaxExponent:
		return fmt.Errorf("%w: max_exponent must be in 1..%d", ErrInvalidConfig, autotimer.MaxExponent)
	case !report.ValidFormat(c.Output):
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}
