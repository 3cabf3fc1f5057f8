package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config is read from flags, NEST_ environment variables, and a nest.yaml
// file, in that order of precedence.
type config struct {
	Templates string        `mapstructure:"templates"`
	Pages     string        `mapstructure:"pages"`
	ErrorPage string        `mapstructure:"error_page"`
	Addr      string        `mapstructure:"addr"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	Watch     bool          `mapstructure:"watch"`
	Trace     bool          `mapstructure:"trace"`
	LogLevel  string        `mapstructure:"log_level"`
}

func defaultConfig() config {
	return config{
		Templates: "templates",
		Pages:     "pages",
		Addr:      "127.0.0.1:8080",
		LogLevel:  "info",
	}
}

// bindFlags binds each config key to the flag with the same name, with
// dashes in place of underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys ...string) error {
	for _, key := range keys {
		flag := flags.Lookup(flagName(key))
		if flag == nil {
			return fmt.Errorf("no flag for config key %q", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag for %q: %w", key, err)
		}
	}
	return nil
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func loadConfig(v *viper.Viper, file string) (config, error) {
	defaults := defaultConfig()
	v.SetDefault("templates", defaults.Templates)
	v.SetDefault("pages", defaults.Pages)
	v.SetDefault("error_page", defaults.ErrorPage)
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("watch", defaults.Watch)
	v.SetDefault("trace", defaults.Trace)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix("NEST")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("nest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func (c config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
