// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// PoolConfig sizes and tags the Postgres connection pool.
type PoolConfig interface {
	DatabaseConfig
	GetDatabaseMaxConns() int
	GetDatabaseApplicationName() string
	GetDatabaseStatementTimeout() time.Duration
}

// MigrationConfig controls whether migrations run on startup.
type MigrationConfig interface {
	DatabaseConfig
	GetMigrationsEnabled() bool
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// LockConfig provides settings for the per-quotation calculation lock.
type LockConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetCalculationLockTTL() time.Duration
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketCalculationSnapshots() string
	IsMinIOEnabled() bool
}

// PricingConfig provides settings for the pricing engine.
type PricingConfig interface {
	GetPricingRatesFile() string
}

// BackfillConfig provides pacing settings for bulk recalculation.
type BackfillConfig interface {
	GetRecalcRatePerSecond() float64
	GetRecalcConcurrency() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration.
// It implements all module-specific config interfaces.
type Config struct {
	Env               string
	DatabaseURL       string
	MigrationsEnabled bool

	DatabaseMaxConns         int
	DatabaseApplicationName  string
	DatabaseStatementTimeout time.Duration

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	CalculationLockTTL time.Duration
	PricingRatesFile   string

	MinIOEndpoint                   string
	MinIOAccessKey                  string
	MinIOSecretKey                  string
	MinIOUseSSL                     bool
	MinioBucketCalculationSnapshots string

	RecalcRatePerSecond float64
	RecalcConcurrency   int
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetMigrationsEnabled() bool { return c.MigrationsEnabled }

// PoolConfig implementation
func (c *Config) GetDatabaseMaxConns() int                   { return c.DatabaseMaxConns }
func (c *Config) GetDatabaseApplicationName() string         { return c.DatabaseApplicationName }
func (c *Config) GetDatabaseStatementTimeout() time.Duration { return c.DatabaseStatementTimeout }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// LockConfig implementation
func (c *Config) GetCalculationLockTTL() time.Duration { return c.CalculationLockTTL }

// PricingConfig implementation
func (c *Config) GetPricingRatesFile() string { return c.PricingRatesFile }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketCalculationSnapshots() string {
	return c.MinioBucketCalculationSnapshots
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// BackfillConfig implementation
func (c *Config) GetRecalcRatePerSecond() float64 { return c.RecalcRatePerSecond }
func (c *Config) GetRecalcConcurrency() int       { return c.RecalcConcurrency }

// Load reads configuration from the environment, loading a .env file first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                             getEnv("APP_ENV", "development"),
		DatabaseURL:                     getEnv("DATABASE_URL", ""),
		MigrationsEnabled:               strings.EqualFold(getEnv("MIGRATIONS_ENABLED", "true"), "true"),
		DatabaseMaxConns:                mustInt(getEnv("DB_MAX_CONNS", "10")),
		DatabaseApplicationName:         getEnv("DB_APPLICATION_NAME", "sales-quotation"),
		DatabaseStatementTimeout:        mustDuration(getEnv("DB_STATEMENT_TIMEOUT", "30s")),
		RedisURL:                        getEnv("REDIS_URL", ""),
		RedisTLSInsecure:                strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:                  getEnv("ASYNQ_QUEUE", "quotations"),
		AsynqConcurrency:                mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		CalculationLockTTL:              mustDuration(getEnv("CALCULATION_LOCK_TTL", "2m")),
		PricingRatesFile:                getEnv("PRICING_RATES_FILE", ""),
		MinIOEndpoint:                   getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:                  getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:                  getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                     strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketCalculationSnapshots: getEnv("MINIO_BUCKET_CALCULATION_SNAPSHOTS", "quotation-calculations"),
		RecalcRatePerSecond:             mustFloat(getEnv("RECALC_RATE_PER_SECOND", "5")),
		RecalcConcurrency:               mustInt(getEnv("RECALC_CONCURRENCY", "4")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CalculationLockTTL <= 0 {
		return nil, fmt.Errorf("CALCULATION_LOCK_TTL must be positive")
	}
	if cfg.IsMinIOEnabled() && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		panic(fmt.Sprintf("invalid duration %q: %v", value, err))
	}
	return parsed
}

func mustInt(value string) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("invalid int %q: %v", value, err))
	}
	return parsed
}

func mustFloat(value string) float64 {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		panic(fmt.Sprintf("invalid float %q: %v", value, err))
	}
	return parsed
}
