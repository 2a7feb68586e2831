package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SettingsFile         string        `yaml:"settings_file"`          // JSON document holding the session token
	LogDir               string        `yaml:"log_dir"`                // logs directory
	PingURL              string        `yaml:"ping_url"`               // endpoint hit once per cycle
	Interval             time.Duration `yaml:"interval"`               // sleep between cycles
	HTTPTimeout          time.Duration `yaml:"http_timeout"`           // bound on a single ping
	MissingSettingsFatal bool          `yaml:"missing_settings_fatal"` // stop the agent when the settings file is gone
	LogCredential        bool          `yaml:"log_credential"`         // log the token verbatim instead of masked
	StatusAddr           string        `yaml:"status_addr"`            // empty disables the status API
	StatusAPIKeys        []string      `yaml:"status_api_keys"`        // empty leaves the status API open
	HistorySize          int           `yaml:"history_size"`           // cycles kept for the status API
}

const DefaultPingURL = "https://app.splatoon2.nintendo.net/api/schedules"

func Default() Config {
	return Config{
		SettingsFile: "settings.txt",
		LogDir:       "logs",
		PingURL:      DefaultPingURL,
		Interval:     time.Hour,
		HTTPTimeout:  30 * time.Second,
		HistorySize:  48,
	}
}

// Load reads an optional YAML file on top of the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(content, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

func FromEnv() Config {
	cfg := Default()
	applyEnv(&cfg)
	cfg.normalize()
	return cfg
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SETTINGS_FILE")); v != "" {
		cfg.SettingsFile = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_DIR")); v != "" {
		cfg.LogDir = v
	}
	if v := strings.TrimSpace(os.Getenv("PING_URL")); v != "" {
		cfg.PingURL = v
	}
	if v := os.Getenv("PING_INTERVAL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Interval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("HTTP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.HTTPTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("SETTINGS_MISSING_FATAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MissingSettingsFatal = b
		}
	}
	if v := os.Getenv("LOG_CREDENTIAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogCredential = b
		}
	}
	// STATUS_ADDR may be set to empty on purpose, so presence is what counts.
	if v, ok := os.LookupEnv("STATUS_ADDR"); ok {
		cfg.StatusAddr = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("STATUS_API_KEYS")); v != "" {
		cfg.StatusAPIKeys = splitKeys(v)
	}
	if v := os.Getenv("HISTORY_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistorySize = n
		}
	}
}

func (c *Config) normalize() {
	d := Default()
	if c.SettingsFile == "" {
		c.SettingsFile = d.SettingsFile
	}
	if c.LogDir == "" {
		c.LogDir = d.LogDir
	}
	if c.PingURL == "" {
		c.PingURL = d.PingURL
	}
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	if c.HistorySize <= 0 {
		c.HistorySize = d.HistorySize
	}
}

func splitKeys(v string) []string {
	var out []string
	for _, k := range strings.Split(v, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
