// Package config provides environment configuration loading for the
// semsim-mcq service.
//
// Configuration is loaded from environment variables with sensible defaults
// for development.
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load configuration:", err)
//	}
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	// EnvDevelopment indicates a development environment.
	EnvDevelopment Environment = "development"
	// EnvStaging indicates a staging environment.
	EnvStaging Environment = "staging"
	// EnvProduction indicates a production environment.
	EnvProduction Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application settings
	App AppConfig

	// Similarity is the upstream semantic-similarity search client config.
	Similarity SimilarityConfig

	// Provenance describes this service's own identity in sources trees.
	Provenance ProvenanceConfig

	// Server configuration
	Server ServerConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	// Environment is the application environment (development, staging, production).
	Environment Environment

	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string

	// LogFormat is the requested log output format (json, text). It is
	// logged at startup; NewLogger does not read it and picks JSON in
	// production and text elsewhere.
	LogFormat string

	// LogFilePath is the rotating log file path. Empty disables file logging.
	LogFilePath string

	// LogMaxSizeMB is the maximum size in megabytes before a log file is rotated.
	LogMaxSizeMB int

	// LogMaxBackups is the maximum number of rotated log files to retain.
	LogMaxBackups int

	// LogMaxAgeDays is the maximum number of days to retain a rotated log file.
	LogMaxAgeDays int
}

// SimilarityConfig holds settings for the upstream semantic-similarity
// search service (Monarch SemSimian).
type SimilarityConfig struct {
	// Scheme is the URL scheme (http or https).
	Scheme string

	// Host is the similarity service hostname.
	Host string

	// Port is the similarity service port.
	Port int

	// Path is the search endpoint path.
	Path string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int

	// RetryDelay is the initial delay between retries (exponential backoff).
	RetryDelay time.Duration

	// DefaultLimit is the configured default result limit. It is validated
	// and logged at startup; the /query handler does not read it and uses
	// its own fixed fallback of 10 when a query omits a limit.
	DefaultLimit int

	// MaxLimit is the configured highest result limit. It is validated and
	// logged at startup; Client.Search does not read it and coerces limits
	// into a fixed [1, 50] range.
	MaxLimit int
}

// ProvenanceConfig identifies this service in assembled sources trees.
type ProvenanceConfig struct {
	// InfoRes is this service's own infores identifier, e.g. "infores:monarch-mcq".
	InfoRes string

	// Title is the human-readable service name. The /metadata response does
	// not include it.
	Title string

	// Version is the service version, logged at startup. The /metadata
	// response does not include it.
	Version string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the server port.
	Port int

	// Host is the server host.
	Host string

	// ReadTimeout is the read timeout.
	ReadTimeout time.Duration

	// WriteTimeout is the write timeout.
	WriteTimeout time.Duration

	// RequestTimeout bounds how long a single /query request may run,
	// including the outbound similarity-search call.
	RequestTimeout time.Duration

	// ShutdownTimeout is the graceful shutdown timeout.
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies sensible defaults for development and validates required fields.
func Load() (*Config, error) {
	cfg := &Config{
		App:        loadAppConfig(),
		Similarity: loadSimilarityConfig(),
		Provenance: loadProvenanceConfig(),
		Server:     loadServerConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this for application startup where configuration is required.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks that all required configuration values are present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Similarity.Host == "" {
		errs = append(errs, errors.New("similarity: SIMSEARCH_HOST must be set"))
	}

	if c.Similarity.DefaultLimit < 1 {
		errs = append(errs, errors.New("similarity: default limit must be at least 1"))
	}

	if c.Similarity.MaxLimit < c.Similarity.DefaultLimit {
		errs = append(errs, errors.New("similarity: max limit must be >= default limit"))
	}

	if c.Provenance.InfoRes == "" {
		errs = append(errs, errors.New("provenance: SERVICE_INFORES must be set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ValidateForProduction performs stricter validation for production environments.
func (c *Config) ValidateForProduction() error {
	if err := c.Validate(); err != nil {
		return err
	}

	var errs []error

	if c.App.Environment != EnvProduction {
		errs = append(errs, errors.New("app: environment must be 'production' for production deployment"))
	}

	if c.App.LogFilePath == "" {
		errs = append(errs, errors.New("app: LOG_FILE_PATH must be set in production"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// IsDevelopment returns true if running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// SimilarityURL returns the base URL of the similarity search service.
func (c *Config) SimilarityURL() string {
	return fmt.Sprintf("%s://%s:%d%s", c.Similarity.Scheme, c.Similarity.Host, c.Similarity.Port, c.Similarity.Path)
}

// LogConfig logs the current configuration.
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Group("app",
			slog.String("environment", string(c.App.Environment)),
			slog.String("log_level", c.App.LogLevel),
			slog.String("log_format", c.App.LogFormat),
			slog.Bool("log_file_enabled", c.App.LogFilePath != ""),
		),
		slog.Group("similarity",
			slog.String("url", c.SimilarityURL()),
			slog.Int("default_limit", c.Similarity.DefaultLimit),
			slog.Int("max_limit", c.Similarity.MaxLimit),
		),
		slog.Group("provenance",
			slog.String("infores", c.Provenance.InfoRes),
			slog.String("version", c.Provenance.Version),
		),
		slog.Group("server",
			slog.Int("port", c.Server.Port),
			slog.Duration("request_timeout", c.Server.RequestTimeout),
		),
	)
}

// loadAppConfig loads application settings from environment variables.
func loadAppConfig() AppConfig {
	env := getEnv("APP_ENV", "development")

	return AppConfig{
		Environment:   parseEnvironment(env),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogFilePath:   getEnv("LOG_FILE_PATH", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 1),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 10),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
	}
}

// loadSimilarityConfig loads semantic-similarity client settings from environment variables.
func loadSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		Scheme:       getEnv("SIMSEARCH_SCHEME", "https"),
		Host:         getEnv("SIMSEARCH_HOST", "monarchinitiative.semanticsimilarity.org"),
		Port:         getEnvInt("SIMSEARCH_PORT", 443),
		Path:         getEnv("SIMSEARCH_PATH", "/api/v1/sim/search"),
		Timeout:      getEnvDuration("SIMSEARCH_TIMEOUT", 30*time.Second),
		MaxRetries:   getEnvInt("SIMSEARCH_MAX_RETRIES", 3),
		RetryDelay:   getEnvDuration("SIMSEARCH_RETRY_DELAY", 500*time.Millisecond),
		DefaultLimit: getEnvInt("SIMSEARCH_DEFAULT_LIMIT", 10),
		MaxLimit:     getEnvInt("SIMSEARCH_MAX_LIMIT", 50),
	}
}

// loadProvenanceConfig loads this service's identity settings from environment variables.
func loadProvenanceConfig() ProvenanceConfig {
	return ProvenanceConfig{
		InfoRes: getEnv("SERVICE_INFORES", "infores:monarch-mcq"),
		Title:   getEnv("SERVICE_TITLE", "Monarch Multi-CURIE Query KP"),
		Version: getEnv("SERVICE_VERSION", "0.1.0"),
	}
}

// loadServerConfig loads HTTP server settings from environment variables.
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Port:            getEnvInt("SERVER_PORT", 8080),
		ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		RequestTimeout:  getEnvDuration("SERVER_REQUEST_TIMEOUT", 45*time.Second),
		ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// parseEnvironment converts a string to Environment type.
func parseEnvironment(env string) Environment {
	switch strings.ToLower(env) {
	case "production", "prod":
		return EnvProduction
	case "staging", "stage":
		return EnvStaging
	default:
		return EnvDevelopment
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration retrieves an environment variable as a duration or returns a default value.
// Supports Go duration strings (e.g., "5m", "1h30m", "300s").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
