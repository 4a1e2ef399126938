package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort   string
	ServerHost   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers  []string
	KafkaEDITopic string

	// Control numbers
	ControlNumberMin int64
	ControlNumberMax int64

	// Queue
	QueueBatchSize     int
	QueueStatsCacheTTL time.Duration

	// Transaction mappings
	MappingRulesPath string

	// Queue drainer
	DrainInterval time.Duration
	DrainTenants  []string
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ServerHost:   getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "ultratms"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "ultratms123"),
		PostgresDB:       getEnv("POSTGRES_DB", "ultratms"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaEDITopic: getEnv("KAFKA_EDI_TOPIC", "edi-events"),

		ControlNumberMin: getInt64Env("CONTROL_NUMBER_MIN", 1),
		ControlNumberMax: getInt64Env("CONTROL_NUMBER_MAX", 999999999),

		QueueBatchSize:     getIntEnv("QUEUE_BATCH_SIZE", 20),
		QueueStatsCacheTTL: getDuration("QUEUE_STATS_CACHE_TTL", 30*time.Second),

		MappingRulesPath: getEnv("MAPPING_RULES_PATH", ""),

		DrainInterval: getDuration("DRAIN_INTERVAL", time.Minute),
		DrainTenants:  getStringSliceEnv("DRAIN_TENANTS", nil),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
