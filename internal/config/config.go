// Package config loads bpfix settings from a config file, the environment and
// command line flags, in increasing order of precedence.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rockstardevs/bpfix"
)

// EnvPrefix prefixes the environment variables overriding config keys,
// e.g. BPFIX_OUTPUT_SUFFIX.
const EnvPrefix = "BPFIX"

// Config is the bpfix configuration.
type Config struct {
	OutputSuffix string `mapstructure:"output_suffix"` // inserted before the output file extension
	Report       string `mapstructure:"report"`        // text, json, yaml or none
	Indent       bool   `mapstructure:"indent"`
	DryRun       bool   `mapstructure:"dry_run"`
}

// flagKeys maps command line flags to the config key they override.
var flagKeys = map[string]string{
	"suffix":  "output_suffix",
	"report":  "report",
	"indent":  "indent",
	"dry-run": "dry_run",
}

// Load reads the config file at path, if any, then applies environment
// overrides and the flags of the given set that were changed. A .env file in
// the working directory is loaded into the environment when present.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// Try to load .env from current directory (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("output_suffix", bpfix.DefaultSuffix)
	v.SetDefault("report", bpfix.FormatText)
	v.SetDefault("indent", true)
	v.SetDefault("dry_run", false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the config values are usable.
func (c *Config) Validate() error {
	switch c.Report {
	case bpfix.FormatText, bpfix.FormatJSON, bpfix.FormatYAML, bpfix.FormatNone:
	default:
		return fmt.Errorf("invalid report format %q, expected text, json, yaml or none", c.Report)
	}
	return nil
}
