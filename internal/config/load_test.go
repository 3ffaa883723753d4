package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	err = os.Mkdir(tempConfigsSubDir, 0755)
	require.NoError(t, err)

	testAppName := "TestApp"
	testPort := 9090
	testLogLevel := "debug"
	testPlaceholder := "GENERIC-LINE"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nCATALOG_PLACEHOLDER_CODE=%s\n",
		testAppName, testPort, testLogLevel, testPlaceholder,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	err = os.WriteFile(envFilePath, []byte(envContent), 0644)
	require.NoError(t, err)

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()

	err = os.Chdir(tempDir)
	require.NoError(t, err)

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testPlaceholder, cfg.Catalog.PlaceholderCode)

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "budget_commitments", cfg.Kafka.CommitmentTopic)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, 10, cfg.WorkerPool.Size)
	assert.Equal(t, "Unit", cfg.Catalog.DefaultUnitOfMeasure)
	assert.Empty(t, cfg.Redis.Addr, "Redis cache should be disabled by default")

	cfgWithName, err := LoadConfigWithName("configs/test_happy") // Viper will look for configs/test_happy.env
	require.NoError(t, err)
	require.NotNil(t, cfgWithName)
	assert.Equal(t, testAppName, cfgWithName.Application.Name)

	// Test LoadConfigWithNameAndType
	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	require.NotNil(t, cfgWithNameAndType)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func defaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{
		Application: ApplicationConfig{Env: v.GetString("APP_ENV"), Name: v.GetString("APP_NAME")},
		Logging:     LoggingConfig{Level: v.GetString("LOG_LEVEL")},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Postgres: PostgresConfig{
			URL:             v.GetString("POSTGRES_URL"),
			MaxConns:        int32(v.GetInt("POSTGRES_MAX_CONNS")),
			MinConns:        int32(v.GetInt("POSTGRES_MIN_CONNS")),
			ConnMaxLifetime: v.GetDuration("POSTGRES_MAX_CONN_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("POSTGRES_MAX_CONN_IDLE_TIME"),
		},
		MongoDB: MongoDBConfig{
			URI:             v.GetString("MONGO_URI"),
			Database:        v.GetString("MONGO_DATABASE"),
			Timeout:         v.GetDuration("MONGO_TIMEOUT"),
			MaxPoolSize:     uint64(v.GetInt("MONGO_MAX_POOL_SIZE")),
			MinPoolSize:     uint64(v.GetInt("MONGO_MIN_POOL_SIZE")),
			MaxConnIdleTime: v.GetDuration("MONGO_MAX_CONN_IDLE_TIME"),
		},
		Kafka: KafkaConfig{
			Brokers:           v.GetString("KAFKA_BROKERS"),
			CommitmentTopic:   v.GetString("KAFKA_COMMITMENT_TOPIC"),
			NumPartitions:     v.GetInt("KAFKA_NUM_PARTITIONS"),
			ReplicationFactor: v.GetInt("KAFKA_REPLICATION_FACTOR"),
			WriteTimeout:      v.GetDuration("KAFKA_WRITE_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
			TTL:  v.GetDuration("REDIS_TTL"),
		},
		Outbox: OutboxConfig{
			PollingInterval:  v.GetDuration("OUTBOX_POLLING_INTERVAL"),
			BatchSize:        v.GetInt("OUTBOX_BATCH_SIZE"),
			MaxRetryAttempts: v.GetInt("OUTBOX_MAX_RETRY_ATTEMPTS"),
		},
		WorkerPool: WorkerPoolConfig{
			Size:      v.GetInt("WORKER_POOL_SIZE"),
			BatchSize: v.GetInt("WORKER_POOL_BATCH_SIZE"),
		},
		Catalog: CatalogConfig{
			PlaceholderCode:       v.GetString("CATALOG_PLACEHOLDER_CODE"),
			DefaultUnitOfMeasure:  v.GetString("CATALOG_DEFAULT_UOM"),
			DefaultCategory:       v.GetString("CATALOG_DEFAULT_CATEGORY"),
			DefaultExpenseAccount: v.GetString("CATALOG_DEFAULT_EXPENSE_ACCOUNT"),
		},
	}
}

func TestConfig_Validate_HappyPath(t *testing.T) {
	cfg := defaultConfig()
	err := cfg.validate()
	assert.NoError(t, err, "Default config should be valid")
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Server.Port = 0
	cfg.Postgres.URL = ""
	cfg.Catalog.PlaceholderCode = ""

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "POSTGRES_URL")
	assert.Contains(t, err.Error(), "CATALOG_PLACEHOLDER_CODE")
}

func TestConfig_Validate_RedisOptional(t *testing.T) {
	cfg := defaultConfig()
	cfg.Redis.Addr = ""
	cfg.Redis.TTL = 0
	assert.NoError(t, cfg.validate(), "unset Redis must not require a TTL")

	cfg.Redis.Addr = "localhost:6379"
	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_TTL")
}
