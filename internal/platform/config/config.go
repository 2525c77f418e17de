package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for apistatus.
type Config struct {
	APIURL       string          `toml:"api_url"`
	APIKey       string          `toml:"api_key"`
	APITimeout   Duration        `toml:"api_timeout"`
	HealthPath   string          `toml:"health_path"`
	PollInterval Duration        `toml:"poll_interval"`
	MetricsAddr  string          `toml:"metrics_addr"`
	MaxBodyBytes int64           `toml:"max_body_bytes"`
	Toast        ToastConfig     `toml:"toast"`
	Intercept    InterceptConfig `toml:"intercept"`
	Log          LogConfig       `toml:"log"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// ToastConfig controls the API status toast.
type ToastConfig struct {
	Dismissible bool     `toml:"dismissible"`
	Timeout     Duration `toml:"timeout"` // zero keeps the toast until dismissed
}

// InterceptConfig lists the failures that trigger the API status toast.
type InterceptConfig struct {
	Statuses []int    `toml:"statuses"`
	Ranges   []int    `toml:"ranges"`
	Codes    []string `toml:"codes"`
}

// LogConfig selects the log level, handler and destination.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json or text
	File   string `toml:"file"`
}

// RateLimitConfig holds token bucket parameters for per-host client rate limiting.
type RateLimitConfig struct {
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

// Duration is a time.Duration written as a string ("15s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		APIURL:       "http://localhost:8080",
		APITimeout:   Duration{15 * time.Second},
		HealthPath:   "/health",
		PollInterval: Duration{10 * time.Second},
		MaxBodyBytes: 1 << 20,
		Toast:        ToastConfig{Dismissible: true},
		Intercept: InterceptConfig{
			Statuses: []int{401, 403},
			Ranges:   []int{500},
			Codes:    []string{"ERR_NETWORK"},
		},
		Log: LogConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{
			Rate:  10,
			Burst: 20,
		},
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (skipped when path is empty or the file does not exist), then environment
// variables, which always win.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
			}
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url is required"))
	}
	if c.PollInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if c.Toast.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("toast.timeout must not be negative, got %s", c.Toast.Timeout))
	}
	if c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate_limit rate and burst must be positive"))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func applyEnvOverrides(cfg *Config) {
	cfg.APIURL = envOr("API_URL", cfg.APIURL)
	cfg.APIKey = envOr("API_KEY", cfg.APIKey)
	cfg.APITimeout.Duration = envDuration("API_TIMEOUT", cfg.APITimeout.Duration)
	cfg.HealthPath = envOr("HEALTH_PATH", cfg.HealthPath)
	cfg.PollInterval.Duration = envDuration("POLL_INTERVAL", cfg.PollInterval.Duration)
	cfg.MetricsAddr = envOr("METRICS_ADDR", cfg.MetricsAddr)
	cfg.MaxBodyBytes = int64(envInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.Toast.Timeout.Duration = envDuration("TOAST_TIMEOUT", cfg.Toast.Timeout.Duration)
	cfg.Toast.Dismissible = envBool("TOAST_DISMISSIBLE", cfg.Toast.Dismissible)
	cfg.Intercept.Statuses = envInts("INTERCEPT_STATUSES", cfg.Intercept.Statuses)
	cfg.Intercept.Ranges = envInts("INTERCEPT_RANGES", cfg.Intercept.Ranges)
	cfg.Intercept.Codes = envList("INTERCEPT_CODES", cfg.Intercept.Codes)
	cfg.Log.Level = envOr("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOr("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = envOr("LOG_FILE", cfg.Log.File)
	cfg.RateLimit.Rate = envFloat("RATE_LIMIT_RATE", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = envInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return n
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slog.Warn("invalid float env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return f
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return b
	}
	return fallback
}

// envList splits a comma-separated variable. An empty item list such as
// "," clears the setting.
func envList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envInts(key string, fallback []int) []int {
	items := envList(key, nil)
	if items == nil {
		if v := os.Getenv(key); v == "" {
			return fallback
		}
		return nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			slog.Warn("invalid integer list env var, using default", "key", key, "value", os.Getenv(key), "default", fallback)
			return fallback
		}
		out = append(out, n)
	}
	return out
}
