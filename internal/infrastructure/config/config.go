package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Log        LogConfig        `mapstructure:"log"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres or sqlite
	Path            string `mapstructure:"path"`   // sqlite file
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// RedisConfig backs the token blacklist, which stays in memory when Enabled
// is false
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret                 string        `mapstructure:"secret"`
	RefreshSecret          string        `mapstructure:"refresh_secret"` // falls back to Secret
	AccessTokenExpiration  time.Duration `mapstructure:"access_token_expiration"`
	RefreshTokenExpiration time.Duration `mapstructure:"refresh_token_expiration"`
	Issuer                 string        `mapstructure:"issuer"`
	MaxRefreshCount        int           `mapstructure:"max_refresh_count"`
}

type HTTPConfig struct {
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes        int           `mapstructure:"max_header_bytes"`
	MaxBodySize           int64         `mapstructure:"max_body_size"`
	RateLimitEnabled      bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests     int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow       time.Duration `mapstructure:"rate_limit_window"`
	AuthRateLimitEnabled  bool          `mapstructure:"auth_rate_limit_enabled"`
	AuthRateLimitRequests int           `mapstructure:"auth_rate_limit_requests"`
	AuthRateLimitWindow   time.Duration `mapstructure:"auth_rate_limit_window"`
	CORSAllowOrigins      []string      `mapstructure:"cors_allow_origins"` // empty allows no cross-origin requests
	CORSAllowMethods      []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders      []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies        []string      `mapstructure:"trusted_proxies"`
}

type StorageConfig struct {
	Driver         string        `mapstructure:"driver"` // local or s3
	LocalDir       string        `mapstructure:"local_dir"`
	PublicBaseURL  string        `mapstructure:"public_base_url"` // URL prefix of files under LocalDir
	MaxImageSize   int64         `mapstructure:"max_image_size"`  // decoded bytes
	S3Endpoint     string        `mapstructure:"s3_endpoint"`
	S3Region       string        `mapstructure:"s3_region"`
	S3Bucket       string        `mapstructure:"s3_bucket"`
	S3AccessKey    string        `mapstructure:"s3_access_key"`
	S3SecretKey    string        `mapstructure:"s3_secret_key"`
	S3UsePathStyle bool          `mapstructure:"s3_use_path_style"`
	S3PresignTTL   time.Duration `mapstructure:"s3_presign_ttl"`
}

type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

type TelemetryConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	CollectorEndpoint     string        `mapstructure:"collector_endpoint"` // OTLP gRPC, e.g. "localhost:4317"
	SamplingRatio         float64       `mapstructure:"sampling_ratio"`
	ServiceName           string        `mapstructure:"service_name"`
	Insecure              bool          `mapstructure:"insecure"`
	MetricsExportInterval time.Duration `mapstructure:"metrics_export_interval"`
	DBTraceEnabled        bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL          bool          `mapstructure:"db_log_full_sql"` // never in production
	DBSlowQueryThresh     time.Duration `mapstructure:"db_slow_query_threshold"`
}

// defaults lists every key Load understands. A key missing here cannot be
// set from the environment, because viper only binds env vars for keys it
// already knows.
var defaults = map[string]any{
	"app.name": "foodgram-backend",
	"app.env":  "development",
	"app.port": "8080",

	"database.driver":             "postgres",
	"database.path":               "foodgram.db",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "foodgram",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,
	"database.auto_migrate":       false,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":                   "",
	"jwt.refresh_secret":           "",
	"jwt.access_token_expiration":  "24h",
	"jwt.refresh_token_expiration": "168h",
	"jwt.issuer":                   "foodgram-backend",
	"jwt.max_refresh_count":        10,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":             "15s",
	"http.write_timeout":            "15s",
	"http.idle_timeout":             "60s",
	"http.max_header_bytes":         1 << 20,
	"http.max_body_size":            10 << 20, // base64 images inflate bodies
	"http.rate_limit_enabled":       false,
	"http.rate_limit_requests":      100,
	"http.rate_limit_window":        "1m",
	"http.auth_rate_limit_enabled":  false,
	"http.auth_rate_limit_requests": 5,
	"http.auth_rate_limit_window":   "1m",
	"http.cors_allow_origins":       []string{},
	"http.cors_allow_methods":       []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers":       []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":          []string{},

	"storage.driver":            "local",
	"storage.local_dir":         "media",
	"storage.public_base_url":   "/media",
	"storage.max_image_size":    5 << 20,
	"storage.s3_endpoint":       "",
	"storage.s3_region":         "us-east-1",
	"storage.s3_bucket":         "",
	"storage.s3_access_key":     "",
	"storage.s3_secret_key":     "",
	"storage.s3_use_path_style": false,
	"storage.s3_presign_ttl":    "1h",

	"pagination.default_page_size": 6,
	"pagination.max_page_size":     100,

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "foodgram-backend",
	"telemetry.insecure":                false,
	"telemetry.metrics_export_interval": "60s",
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": "200ms",
}

// Load reads config.toml (optional) and FOODGRAM_* environment variables.
// Environment wins over the file, the file wins over defaults.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FOODGRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate reports every violated rule at once
func (c *Config) validate() error {
	var errs []error
	require := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	require(c.Database.Driver == "postgres" || c.Database.Driver == "sqlite",
		"database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	require(c.Database.MaxOpenConns > 0, "database.max_open_conns must be positive")
	require(c.Database.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	require(c.Database.MaxIdleConns <= c.Database.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
		c.Database.MaxIdleConns, c.Database.MaxOpenConns)

	require(c.Storage.Driver == "local" || c.Storage.Driver == "s3",
		"storage.driver must be local or s3, got %q", c.Storage.Driver)
	require(c.Storage.Driver != "s3" || c.Storage.S3Bucket != "",
		"storage.s3_bucket is required when storage.driver is s3")

	require(c.Pagination.DefaultPageSize > 0, "pagination.default_page_size must be positive")
	require(c.Pagination.DefaultPageSize <= c.Pagination.MaxPageSize,
		"pagination.default_page_size (%d) cannot exceed pagination.max_page_size (%d)",
		c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize)

	require(c.HTTP.RateLimitWindow > 0 && c.HTTP.AuthRateLimitWindow > 0,
		"http rate limit windows must be positive")
	require(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)

	if c.App.Env == "production" {
		require(len(c.JWT.Secret) >= 32, "jwt.secret must be at least 32 characters in production")
		require(c.Database.Driver == "postgres", "database.driver must be postgres in production")
		require(c.Database.Password != "", "database.password is required in production")
		require(c.Database.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
		require(!slices.Contains(c.HTTP.CORSAllowOrigins, "*"),
			"http.cors_allow_origins cannot be '*' in production")
		require(!c.Telemetry.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production")
	}

	return errors.Join(errs...)
}

// DSN returns the postgres connection URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// SQLiteDSN returns the sqlite connection string with foreign keys enforced
func (d *DatabaseConfig) SQLiteDSN() string {
	return d.Path + "?_foreign_keys=1&_busy_timeout=5000"
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
