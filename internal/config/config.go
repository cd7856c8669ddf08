package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	RateLimitAllowedPerMin int      `toml:"rate_limit_allowed_per_min"`
	CorsAllowedOrigins     []string `toml:"cors_allowed_origins"`
	ListCacheSizeBytes     int      `toml:"list_cache_size_bytes"`
	MaxRequestBodyBytes    int64    `toml:"max_request_body_bytes"`

	// terminal client
	APIURL               string   `toml:"api_url"`
	Locale               string   `toml:"locale"`
	ChartDir             string   `toml:"chart_dir"`
	NotificationTTL      Duration `toml:"notification_ttl"`
	RequestTimeout       Duration `toml:"request_timeout"`
	ClientLogsPath       string   `toml:"client_logs_path"`
	ClientTracingEnabled bool     `toml:"client_tracing_enabled"`
}

// Duration reads TOML strings like "3s" or "1m30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env,
// with defaults filled in for keys the file leaves out.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config %s has no section for env %s", path, env)
	}

	cfg.applyDefaults(env)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env %s: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.RateLimitAllowedPerMin == 0 {
		c.RateLimitAllowedPerMin = 60
	}
	if c.ListCacheSizeBytes == 0 {
		c.ListCacheSizeBytes = 1024 * 1024
	}
	if c.MaxRequestBodyBytes == 0 {
		c.MaxRequestBodyBytes = 64 * 1024
	}
	if c.APIURL == "" {
		c.APIURL = fmt.Sprintf("http://%s:%d/weights", c.Host, c.Port)
	}
	if c.Locale == "" {
		c.Locale = "de-DE"
	}
	if c.NotificationTTL.Duration == 0 {
		c.NotificationTTL.Duration = 3 * time.Second
	}
	if c.RequestTimeout.Duration == 0 {
		c.RequestTimeout.Duration = 10 * time.Second
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.RateLimitAllowedPerMin < 0 {
		errs = append(errs, fmt.Errorf("negative rate limit: %d", c.RateLimitAllowedPerMin))
	}
	if c.NotificationTTL.Duration < 0 || c.RequestTimeout.Duration < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	return errors.Join(errs...)
}
