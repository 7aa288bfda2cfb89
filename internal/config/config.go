package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/itdwgmbh/odoo-xmlrpc-go/pkg/odoo"
)

// Environment variables overriding values from the config file
const (
	EnvURL      = "ODOO_URL"
	EnvDatabase = "ODOO_DB"
	EnvUsername = "ODOO_USERNAME"
	EnvPassword = "ODOO_PASSWORD"
	EnvLogLevel = "ODOO_LOG_LEVEL"
)

// ErrInvalid is wrapped by every Validate failure
var ErrInvalid = errors.New("invalid configuration")

// Config holds the connection settings of an Odoo client
type Config struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	LogLevel string `yaml:"log_level"`
}

// Options controls where Load reads settings from
type Options struct {
	// Path of a YAML config file. Empty means no file.
	Path string
	// EnvFile is a dotenv file loaded into the process environment first.
	// A missing file is not an error.
	EnvFile string
}

// Load reads the config file named by opts, then applies environment overrides
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			slog.Debug("env file not loaded, using process environment", "path", opts.EnvFile, "error", err)
		}
	}

	cfg := &Config{LogLevel: "info"}
	if opts.Path != "" {
		data, err := cfgFS.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", opts.Path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	for key, dst := range map[string]*string{
		EnvURL:      &c.URL,
		EnvDatabase: &c.Database,
		EnvUsername: &c.Username,
		EnvPassword: &c.Password,
		EnvLogLevel: &c.LogLevel,
	} {
		if v, ok := cfgFS.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
}

// Validate reports missing connection settings
func (c *Config) Validate() error {
	var missing []string
	if c.URL == "" {
		missing = append(missing, "url")
	}
	if c.Database == "" {
		missing = append(missing, "database")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Credentials returns the client credentials described by c
func (c *Config) Credentials() odoo.Credentials {
	return odoo.Credentials{
		BaseURL:  c.URL,
		Database: c.Database,
		Username: c.Username,
		Password: c.Password,
	}
}

// SlogLevel returns the configured log level, info if unset or unknown
func (c *Config) SlogLevel() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalid, s)
}
