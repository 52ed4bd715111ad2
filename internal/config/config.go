// Package config loads the bot's YAML configuration. Values may
// reference environment variables as ${VAR}; secrets stay out of the
// file itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Config is the complete huntbot configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Discord DiscordConfig `yaml:"discord"`
	Store   StoreConfig   `yaml:"store"`
	Browser BrowserConfig `yaml:"browser,omitempty"`
	API     APIConfig     `yaml:"api,omitempty"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// HandlerTTL bounds how long button and modal handlers stay
	// registered.
	HandlerTTL time.Duration `yaml:"handler_ttl"`
}

// DiscordConfig defines the Discord connection.
type DiscordConfig struct {
	Token string `yaml:"token"`
	AppID string `yaml:"app_id"`
	// GuildID scopes command registration to one guild; empty registers
	// globally.
	GuildID string `yaml:"guild_id,omitempty"`
}

// StoreConfig defines the tabular store and its template documents.
type StoreConfig struct {
	Path string `yaml:"path"`
	// SettingsTemplate is the settings spreadsheet copied per guild.
	SettingsTemplate string `yaml:"settings_template"`
	// TrackerTemplate is the tracking spreadsheet copied per hunt.
	TrackerTemplate string `yaml:"tracker_template"`
	// Email is the service principal checked against folder permissions.
	Email string `yaml:"email"`
}

// BrowserConfig tunes the hunt-site browser sessions.
type BrowserConfig struct {
	Headless bool          `yaml:"headless"`
	Lifespan time.Duration `yaml:"lifespan"`
}

// APIConfig defines the ops HTTP server.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Token   string `yaml:"token"`
}

// Load reads, env-expands, parses, and validates the config file.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with -config flag", absPath)
	}

	expanded := expandEnvVars(string(data))
	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", absPath, err)
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// expandEnvVars replaces ${VAR} with the environment value. Unset
// variables keep the placeholder so validation can name them.
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "huntbot"
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = "info"
	}
	if cfg.Service.LogFormat == "" {
		cfg.Service.LogFormat = "json"
	}
	if cfg.Service.HandlerTTL <= 0 {
		cfg.Service.HandlerTTL = 24 * time.Hour
	}
	if cfg.Browser.Lifespan <= 0 {
		cfg.Browser.Lifespan = 7 * 24 * time.Hour
	}
	if cfg.API.Enabled && cfg.API.Listen == "" {
		cfg.API.Listen = "127.0.0.1:8520"
	}
}

func validate(cfg *Config) error {
	if err := requireResolved("discord.token", cfg.Discord.Token); err != nil {
		return err
	}
	if cfg.Discord.AppID == "" {
		return fmt.Errorf("discord.app_id is required")
	}
	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if cfg.Store.SettingsTemplate == "" {
		return fmt.Errorf("store.settings_template is required")
	}
	if cfg.Store.TrackerTemplate == "" {
		return fmt.Errorf("store.tracker_template is required")
	}
	if cfg.Store.Email == "" {
		return fmt.Errorf("store.email is required")
	}
	if cfg.API.Enabled {
		if err := requireResolved("api.token", cfg.API.Token); err != nil {
			return err
		}
	}
	switch cfg.Service.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("service.log_level must be one of debug, info, warn, error")
	}
	switch cfg.Service.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("service.log_format must be json or text")
	}
	return nil
}

// requireResolved rejects empty values and unresolved ${VAR}
// placeholders, naming the missing variable.
func requireResolved(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if envVarPattern.MatchString(value) {
		matches := envVarPattern.FindStringSubmatch(value)
		if len(matches) > 1 {
			return fmt.Errorf("%s: environment variable ${%s} is not set", field, matches[1])
		}
		return fmt.Errorf("%s: unresolved environment variable", field)
	}
	return nil
}
