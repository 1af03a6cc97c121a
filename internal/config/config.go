package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Dashboard variants.
const (
	ViewFermentation = "fermentation"
	ViewDoughSize    = "dough_size"
)

const envPrefix = "FERMDASH"

// Config is the whole runtime configuration of the dashboard service.
type Config struct {
	Port      string          `mapstructure:"port"`
	LogLevel  string          `mapstructure:"log_level"`
	DB        DBConfig        `mapstructure:"db"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Client    ClientConfig    `mapstructure:"client"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	WS        WSConfig        `mapstructure:"ws"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ClientConfig tunes the HTTP client used against the backend.
// A zero Timeout means requests are never cut short.
type ClientConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type DashboardConfig struct {
	View            string        `mapstructure:"view"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	SensorHours     int           `mapstructure:"sensor_hours"`
	GaugeHours      int           `mapstructure:"gauge_hours"`
	SizeHours       int           `mapstructure:"size_hours"`
	Timezone        string        `mapstructure:"timezone"`
	LabelLayout     string        `mapstructure:"label_layout"`
	StartTimeLayout string        `mapstructure:"start_time_layout"`
}

type WSConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// setDefaults mirrors configs/config.yml so the service runs without a file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "fermdash.db")
	v.SetDefault("backend.base_url", "http://localhost:5000")
	v.SetDefault("client.timeout", 0)
	v.SetDefault("client.user_agent", "fermdash/1.0")
	v.SetDefault("dashboard.view", ViewFermentation)
	v.SetDefault("dashboard.refresh_interval", 30*time.Second)
	v.SetDefault("dashboard.sensor_hours", 24)
	v.SetDefault("dashboard.gauge_hours", 1)
	v.SetDefault("dashboard.size_hours", 24)
	v.SetDefault("dashboard.timezone", "Local")
	v.SetDefault("dashboard.label_layout", "15:04")
	v.SetDefault("dashboard.start_time_layout", "2006/01/02 15:04:05")
	v.SetDefault("ws.interval", 30*time.Second)
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"port":      "port",
	"log-level": "log_level",
	"backend":   "backend.base_url",
	"db":        "db.path",
	"view":      "dashboard.view",
}

// Load reads configs/config.yml (or the file at path), applies FERMDASH_*
// environment overrides and any changed flags, and validates the result.
// A missing config file is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %q: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate performs basic configuration validation.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return errors.New("backend.base_url cannot be empty")
	}
	switch c.Dashboard.View {
	case ViewFermentation, ViewDoughSize:
	default:
		return fmt.Errorf("dashboard.view must be %q or %q, got %q", ViewFermentation, ViewDoughSize, c.Dashboard.View)
	}
	if c.Dashboard.RefreshInterval <= 0 {
		return errors.New("dashboard.refresh_interval must be greater than 0")
	}
	if c.Dashboard.SensorHours <= 0 || c.Dashboard.GaugeHours <= 0 || c.Dashboard.SizeHours <= 0 {
		return errors.New("dashboard hour windows must be greater than 0")
	}
	if c.Client.Timeout < 0 {
		return errors.New("client.timeout cannot be negative")
	}
	if _, err := c.Dashboard.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone used for labels.
func (d DashboardConfig) Location() (*time.Location, error) {
	if d.Timezone == "" || d.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("dashboard.timezone %q: %w", d.Timezone, err)
	}
	return loc, nil
}
