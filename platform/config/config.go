// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers supported by the lead repository.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ObjectStoragePrefix marks an artifact path that lives in MinIO/S3.
const ObjectStoragePrefix = "s3://"

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseDriver() string
	GetDatabaseURL() string
	GetSQLitePath() string
	GetMigrationsEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	IsMinIOEnabled() bool
}

// ArtifactConfig locates the trained model and its label encoders.
type ArtifactConfig interface {
	GetModelPath() string
	GetEncodersPath() string
}

// CacheConfig provides settings for the known-lead cache.
type CacheConfig interface {
	GetRedisURL() string
	GetKnownLeadCacheTTL() time.Duration
	IsCacheEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env               string
	HTTPAddr          string
	DatabaseDriver    string
	DatabaseURL       string
	SQLitePath        string
	MigrationsEnabled bool
	CORSOrigins       []string
	RateLimitRPS      float64
	RateLimitBurst    int
	ModelPath         string
	EncodersPath      string
	MinIOEndpoint     string
	MinIOAccessKey    string
	MinIOSecretKey    string
	MinIOUseSSL       bool
	RedisURL          string
	KnownLeadCacheTTL time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseDriver() string  { return c.DatabaseDriver }
func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetSQLitePath() string      { return c.SQLitePath }
func (c *Config) GetMigrationsEnabled() bool { return c.MigrationsEnabled }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string       { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string  { return c.CORSOrigins }
func (c *Config) GetRateLimitRPS() float64  { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int    { return c.RateLimitBurst }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) IsMinIOEnabled() bool      { return c.MinIOEndpoint != "" }

// ArtifactConfig implementation
func (c *Config) GetModelPath() string    { return c.ModelPath }
func (c *Config) GetEncodersPath() string { return c.EncodersPath }

// CacheConfig implementation
func (c *Config) GetRedisURL() string                 { return c.RedisURL }
func (c *Config) GetKnownLeadCacheTTL() time.Duration { return c.KnownLeadCacheTTL }
func (c *Config) IsCacheEnabled() bool                { return c.RedisURL != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	rps, err := envFloat("RATE_LIMIT_RPS", "20")
	if err != nil {
		return nil, err
	}
	burst, err := envInt("RATE_LIMIT_BURST", "40")
	if err != nil {
		return nil, err
	}
	ttl, err := envDuration("KNOWN_LEAD_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DatabaseDriver:    strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "leads.db"),
		MigrationsEnabled: strings.EqualFold(getEnv("MIGRATIONS_ENABLED", "true"), "true"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPS:      rps,
		RateLimitBurst:    burst,
		ModelPath:         getEnv("MODEL_PATH", "model.yaml"),
		EncodersPath:      getEnv("ENCODERS_PATH", "label_encoders.yaml"),
		MinIOEndpoint:     getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:    getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:    getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:       strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		RedisURL:          getEnv("REDIS_URL", ""),
		KnownLeadCacheTTL: ttl,
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			dsn, err := postgresURLFromParts()
			if err != nil {
				return nil, err
			}
			cfg.DatabaseURL = dsn
		}
	case DriverSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required when DATABASE_DRIVER is sqlite")
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if err := cfg.ValidateArtifacts(); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if cfg.IsCacheEnabled() && cfg.KnownLeadCacheTTL <= 0 {
		return nil, fmt.Errorf("KNOWN_LEAD_CACHE_TTL must be a positive duration")
	}

	return cfg, nil
}

// LoadArtifacts reads only the artifact and object storage settings. It is
// used by tooling that inspects artifacts without a database.
func LoadArtifacts() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		ModelPath:      getEnv("MODEL_PATH", "model.yaml"),
		EncodersPath:   getEnv("ENCODERS_PATH", "label_encoders.yaml"),
		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:    strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
	}
	if err := cfg.ValidateArtifacts(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateArtifacts checks the artifact paths against the object storage
// settings.
func (c *Config) ValidateArtifacts() error {
	if c.ModelPath == "" || c.EncodersPath == "" {
		return fmt.Errorf("MODEL_PATH and ENCODERS_PATH are required")
	}
	usesObjectStorage := strings.HasPrefix(c.ModelPath, ObjectStoragePrefix) ||
		strings.HasPrefix(c.EncodersPath, ObjectStoragePrefix)
	if usesObjectStorage && !c.IsMinIOEnabled() {
		return fmt.Errorf("MINIO_ENDPOINT is required when artifacts are read from %s", ObjectStoragePrefix)
	}
	if c.IsMinIOEnabled() && (c.MinIOAccessKey == "" || c.MinIOSecretKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	return nil
}

// postgresURLFromParts builds a DSN from the discrete DATABASE_* variables.
// Host, port and password have no defaults.
func postgresURLFromParts() (string, error) {
	host := getEnv("DATABASE_HOST", "")
	port := getEnv("DATABASE_PORT", "")
	password := getEnv("DATABASE_PASSWORD", "")
	if host == "" || port == "" || password == "" {
		return "", fmt.Errorf("DATABASE_HOST, DATABASE_PORT and DATABASE_PASSWORD are required when DATABASE_URL is not set")
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("DATABASE_PORT must be numeric: %w", err)
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DATABASE_USER", "postgres"), password),
		Host:   host + ":" + port,
		Path:   "/" + getEnv("DATABASE_NAME", "leads_db"),
	}
	q := u.Query()
	q.Set("sslmode", getEnv("DATABASE_SSLMODE", "disable"))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// envDuration, envInt and envFloat reject malformed values instead of
// silently turning them into zero, which would change behaviour.
func envDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func envInt(key, fallback string) (int, error) {
	result, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return result, nil
}

func envFloat(key, fallback string) (float64, error) {
	result, err := strconv.ParseFloat(getEnv(key, fallback), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return result, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
