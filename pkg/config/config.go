// Package config loads configuration for the aggregator.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"listkeeper/pkg/source"
)

const (
	defaultConfigPath = "/etc/listkeeper/listkeeper.conf"
	configEnvVar      = "LISTKEEPER_CONFIG"
)

// Config contains all runtime options required for an aggregation run.
type Config struct {
	Output  OutputConfig            `mapstructure:"output"`
	Fetch   FetchConfig             `mapstructure:"fetch"`
	Logging LoggingConfig           `mapstructure:"logging"`
	Custom  []CustomConfig          `mapstructure:"custom"`
	Sources map[string]SourceConfig `mapstructure:"-"`
}

// OutputConfig holds artifact location settings.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// FetchConfig holds upstream HTTP settings.
type FetchConfig struct {
	Timeout     time.Duration `mapstructure:"-"`
	Concurrency int           `mapstructure:"concurrency"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SourceConfig overrides one built-in feed. A nil Enabled means the
// feed keeps its default (on).
type SourceConfig struct {
	Enabled *bool    `mapstructure:"enabled"`
	URLs    []string `mapstructure:"urls"`
	APIKey  string   `mapstructure:"api_key"`
}

// CustomConfig defines an extra plaintext feed.
type CustomConfig struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Token    string `mapstructure:"token"`
	Header   string `mapstructure:"header"`
	Scheme   string `mapstructure:"scheme"`
}

// ValidateLogLevel ensures the user-provided log level matches the supported set.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(level)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", level)
	}
	return nil
}

// Setup loads the TOML configuration file and produces a Config
// instance. A missing file at the default path falls back to defaults;
// an explicitly configured file must exist.
func Setup() (*Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// SourceConfig converts the loaded settings into the source registry's
// run configuration.
func (c *Config) SourceConfig() source.Config {
	out := source.Config{
		Timeout:  c.Fetch.Timeout,
		Disabled: make(map[string]bool),
		URLs:     make(map[string][]string),
		APIKeys:  make(map[string]string),
	}

	for name, sc := range c.Sources {
		if sc.Enabled != nil && !*sc.Enabled {
			out.Disabled[name] = true
		}
		if len(sc.URLs) > 0 {
			out.URLs[name] = sc.URLs
		}
		if sc.APIKey != "" {
			out.APIKeys[name] = sc.APIKey
		}
	}

	for _, custom := range c.Custom {
		out.Custom = append(out.Custom, source.CustomFeed{
			Name:     custom.Name,
			URL:      custom.URL,
			Category: custom.Category,
			Auth: source.AuthConfig{
				Username: custom.Username,
				Password: custom.Password,
				Token:    custom.Token,
				Header:   custom.Header,
				Scheme:   custom.Scheme,
			},
		})
	}

	return out
}

func loadConfig() (*Config, error) {
	configPath := defaultConfigPath
	explicit := false
	if fromEnv := strings.TrimSpace(os.Getenv(configEnvVar)); fromEnv != "" {
		configPath = fromEnv
		explicit = true
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file at the default path means run on defaults.
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	sourceConfigs, err := parseSourceConfigs(v)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sourceConfigs

	cfg.Fetch.Timeout, err = parseDuration(v.GetString("fetch.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid fetch.timeout: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "lists")
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.concurrency", 4)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "stdout")
}

func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

func validateConfig(cfg *Config) error {
	if err := ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}

	if cfg.Output.Dir == "" {
		return errors.New("output.dir is required")
	}

	if cfg.Fetch.Concurrency < 1 {
		return errors.New("fetch.concurrency must be >= 1")
	}
	if cfg.Fetch.Timeout < 0 {
		return errors.New("fetch.timeout must not be negative")
	}

	for name := range cfg.Sources {
		if !source.Known(name) {
			return fmt.Errorf("unknown source table: sources.%s", name)
		}
	}

	return nil
}

func parseSourceConfigs(v *viper.Viper) (map[string]SourceConfig, error) {
	raw := v.GetStringMap("sources")
	if len(raw) == 0 {
		return map[string]SourceConfig{}, nil
	}

	sourceConfigs := make(map[string]SourceConfig)
	for key, value := range raw {
		subMap, ok := value.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("sources.%s must be a table", key)
		}
		var cfg SourceConfig
		if err := mapstructure.Decode(subMap, &cfg); err != nil {
			return nil, fmt.Errorf("parse sources.%s: %w", key, err)
		}
		sourceConfigs[strings.ToLower(key)] = cfg
	}

	return sourceConfigs, nil
}
