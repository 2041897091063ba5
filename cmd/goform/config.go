package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	goform "github.com/reoring/goform"
)

// Config is the resolved configuration of a validate run.
type Config struct {
	Schema   string        `mapstructure:"schema"`
	Input    string        `mapstructure:"input"`
	Defaults string        `mapstructure:"defaults"`
	Format   string        `mapstructure:"format"`
	Lang     string        `mapstructure:"lang"`
	Verbose  bool          `mapstructure:"verbose"`
	Options  OptionsConfig `mapstructure:"options"`
}

// OptionsConfig mirrors goform.Options.
type OptionsConfig struct {
	UseDefault       bool `mapstructure:"use_default"`
	StopOnError      bool `mapstructure:"stop_on_error"`
	AllowEmpty       bool `mapstructure:"allow_empty"`
	IgnoreExtraneous bool `mapstructure:"ignore_extraneous"`
}

func (o OptionsConfig) options() goform.Options {
	return goform.Options{
		UseDefault:       o.UseDefault,
		StopOnError:      o.StopOnError,
		AllowEmpty:       o.AllowEmpty,
		IgnoreExtraneous: o.IgnoreExtraneous,
	}
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"schema":                    "schema",
	"input":                     "input",
	"defaults":                  "defaults",
	"format":                    "format",
	"lang":                      "lang",
	"verbose":                   "verbose",
	"options.use_default":       "use-default",
	"options.stop_on_error":     "stop-on-error",
	"options.allow_empty":       "allow-empty",
	"options.ignore_extraneous": "ignore-extraneous",
}

// LoadConfig loads configuration from defaults, an optional file, GOFORM_*
// environment variables and the flags of cmd, in increasing precedence.
func LoadConfig(configPath string, cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	d := goform.DefaultOptions()
	v.SetDefault("schema", "")
	v.SetDefault("input", "-")
	v.SetDefault("defaults", "")
	v.SetDefault("format", "text")
	v.SetDefault("lang", "en")
	v.SetDefault("verbose", false)
	v.SetDefault("options.use_default", d.UseDefault)
	v.SetDefault("options.stop_on_error", d.StopOnError)
	v.SetDefault("options.allow_empty", d.AllowEmpty)
	v.SetDefault("options.ignore_extraneous", d.IgnoreExtraneous)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("GOFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for key, name := range flagKeys {
			f := cmd.Flags().Lookup(name)
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
	switch cfg.Format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("unsupported output format %q", cfg.Format)
	}
	return &cfg, nil
}

// newLogger builds a development logger when verbose, else a production one.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
