// Package config provides configuration structures and validation for the application.
// It handles environment-based configuration for all major components including
// server settings, database connections, messaging and catalog defaults.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all
// components. Each field represents a major subsystem's configuration and is
// validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
	Catalog     CatalogConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration for the commitment query store
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig contains Kafka configuration for commitment event publishing
type KafkaConfig struct {
	Brokers           string
	CommitmentTopic   string
	NumPartitions     int // Number of partitions for topic creation
	ReplicationFactor int // Replication factor for topic creation
	WriteTimeout      time.Duration
}

// RedisConfig contains the optional catalog existence cache configuration.
// An empty address disables caching entirely.
type RedisConfig struct {
	Addr string
	TTL  time.Duration
}

// OutboxConfig contains outbox pattern configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int // Maximum number of publish attempts per message
}

// WorkerPoolConfig contains worker pool configuration for bulk catalog jobs
type WorkerPoolConfig struct {
	Size      int // Maximum number of workers in the pool
	BatchSize int // Budgets fetched per page during bulk iteration
}

// CatalogConfig contains the platform-mandatory defaults applied when
// provisioning catalog entries, and the shared placeholder code used for
// order lines that carry no analytic code. All callers must agree on these
// values, so they are injected here rather than re-derived per call site.
type CatalogConfig struct {
	PlaceholderCode       string
	DefaultUnitOfMeasure  string
	DefaultCategory       string
	DefaultExpenseAccount string
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.CommitmentTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_COMMITMENT_TOPIC is required")
	}
	if c.Kafka.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
	}

	// Redis is optional; only the TTL is checked when an address is set
	if c.Redis.Addr != "" && c.Redis.TTL <= 0 {
		validationErrors = append(validationErrors, "REDIS_TTL must be greater than 0 when REDIS_ADDR is set")
	}

	// Validate Outbox config
	if c.Outbox.PollingInterval <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	}
	if c.Outbox.BatchSize <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if c.Outbox.MaxRetryAttempts <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}
	if c.WorkerPool.BatchSize <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_BATCH_SIZE must be greater than 0")
	}

	// Validate Catalog config
	if c.Catalog.PlaceholderCode == "" {
		validationErrors = append(validationErrors, "CATALOG_PLACEHOLDER_CODE is required")
	}
	if c.Catalog.DefaultUnitOfMeasure == "" {
		validationErrors = append(validationErrors, "CATALOG_DEFAULT_UOM is required")
	}
	if c.Catalog.DefaultCategory == "" {
		validationErrors = append(validationErrors, "CATALOG_DEFAULT_CATEGORY is required")
	}

	if len(validationErrors) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(validationErrors, "; "))
	}

	return nil
}
