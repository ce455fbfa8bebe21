// Package config loads CLI and server settings from an optional YAML file,
// an optional .env file and FORMBUILDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formbuilder/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. FORMBUILDER_SERVER_ADDR.
const EnvPrefix = "FORMBUILDER"

// Config is the root configuration.
type Config struct {
	Log     logging.Config `mapstructure:"log"`
	Server  Server         `mapstructure:"server"`
	OpenAPI OpenAPI        `mapstructure:"openapi"`
	Theme   Theme          `mapstructure:"theme"`
	Render  Render         `mapstructure:"render"`
}

// Server configures the demo HTTP server.
type Server struct {
	Addr         string `mapstructure:"addr"`
	Forms        string `mapstructure:"forms"`
	CookieName   string `mapstructure:"cookie_name"`
	SecureCookie bool   `mapstructure:"secure_cookie"`
	// SessionTTL evicts sessions left idle this long.
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

// OpenAPI configures document loading.
type OpenAPI struct {
	Source  string        `mapstructure:"source"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Theme points at an optional go-theme manifest.
type Theme struct {
	Manifest string `mapstructure:"manifest"`
	Name     string `mapstructure:"name"`
	Variant  string `mapstructure:"variant"`
}

// Render selects the template engine and an optional template directory.
type Render struct {
	Engine    string `mapstructure:"engine"`
	Templates string `mapstructure:"templates"`
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if strings.TrimSpace(c.Server.CookieName) == "" {
		return errors.New("config: server.cookie_name is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Render.Engine)) {
	case "", "pongo2", "go-template":
	default:
		return fmt.Errorf("config: unknown render.engine %q", c.Render.Engine)
	}
	if c.Server.SessionTTL < 0 || c.Server.MaxSessions < 0 {
		return errors.New("config: server.session_ttl and server.max_sessions must not be negative")
	}
	if c.OpenAPI.Timeout < 0 {
		return errors.New("config: openapi.timeout must not be negative")
	}
	return nil
}

type loaderConfig struct {
	configFile string
	envFile    string
}

// LoaderOption customises Load.
type LoaderOption func(*loaderConfig)

// WithConfigFile sets an explicit YAML config file.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets an explicit .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load reads configuration. The env file is loaded first so its variables
// take part in environment overrides; existing variables are not replaced.
func Load(options ...LoaderOption) (Config, error) {
	lc := loaderConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&lc)
		}
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil {
			return Config{}, fmt.Errorf("config: load env file %s: %w", lc.envFile, err)
		}
	} else if fileExists(".env") {
		_ = godotenv.Load(".env")
	}

	v := viper.New()
	setDefaults(v)

	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", lc.configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Log.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatConsole)
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.no_color", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.forms", "forms")
	v.SetDefault("server.cookie_name", "formbuilder_session")
	v.SetDefault("server.secure_cookie", false)
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("server.max_sessions", 10000)
	v.SetDefault("openapi.source", "")
	v.SetDefault("openapi.timeout", 10*time.Second)
	v.SetDefault("theme.manifest", "")
	v.SetDefault("theme.name", "")
	v.SetDefault("theme.variant", "")
	v.SetDefault("render.engine", "pongo2")
	v.SetDefault("render.templates", "")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
