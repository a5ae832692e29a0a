// Package config provides configuration structures and validation for the
// application. It handles environment-based configuration for all major
// components including server settings, database connections, the operation
// event stream, and operational parameters.
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
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
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

// KafkaConfig contains the operation event stream configuration
type KafkaConfig struct {
	Brokers           string
	OperationTopic    string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
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

// MongoDBConfig contains MongoDB configuration for the statement archive
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// OutboxConfig contains outbox pattern configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int // Maximum number of retry attempts for outbox messages
}

// WorkerPoolConfig contains archiver worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// validate checks every subsystem's settings and reports all problems at once
// so a misconfigured deployment fails with the full list
func (c *Config) validate() error {
	var problems []string

	required := func(name, value string) {
		if value == "" {
			problems = append(problems, name+" is required")
		}
	}
	positive := func(name string, value int64) {
		if value <= 0 {
			problems = append(problems, name+" must be greater than 0")
		}
	}

	positive("SERVER_PORT", int64(c.Server.Port))
	positive("SERVER_SHUTDOWN_TIMEOUT", int64(c.Server.ShutdownTimeout))
	positive("SERVER_READ_TIMEOUT", int64(c.Server.ReadTimeout))
	positive("SERVER_WRITE_TIMEOUT", int64(c.Server.WriteTimeout))
	positive("SERVER_IDLE_TIMEOUT", int64(c.Server.IdleTimeout))

	required("KAFKA_BROKERS", c.Kafka.Brokers)
	required("KAFKA_OPERATION_TOPIC", c.Kafka.OperationTopic)
	required("KAFKA_CONSUMER_GROUP", c.Kafka.ConsumerGroup)
	required("KAFKA_DLQ_TOPIC", c.Kafka.DLQTopic)
	positive("KAFKA_CONSUMER_MIN_BYTES", int64(c.Kafka.MinBytes))
	positive("KAFKA_CONSUMER_MAX_BYTES", int64(c.Kafka.MaxBytes))
	positive("KAFKA_CONSUMER_MAX_WAIT", int64(c.Kafka.MaxWait))

	required("POSTGRES_URL", c.Postgres.URL)
	positive("POSTGRES_MAX_CONNS", int64(c.Postgres.MaxConns))
	positive("POSTGRES_MIN_CONNS", int64(c.Postgres.MinConns))
	positive("POSTGRES_MAX_CONN_LIFETIME", int64(c.Postgres.ConnMaxLifetime))
	positive("POSTGRES_MAX_CONN_IDLE_TIME", int64(c.Postgres.ConnMaxIdleTime))

	required("MONGO_URI", c.MongoDB.URI)
	required("MONGO_DATABASE", c.MongoDB.Database)
	positive("MONGO_TIMEOUT", int64(c.MongoDB.Timeout))
	positive("MONGO_MAX_POOL_SIZE", int64(c.MongoDB.MaxPoolSize))
	positive("MONGO_MIN_POOL_SIZE", int64(c.MongoDB.MinPoolSize))
	positive("MONGO_MAX_CONN_IDLE_TIME", int64(c.MongoDB.MaxConnIdleTime))

	positive("OUTBOX_POLLING_INTERVAL", int64(c.Outbox.PollingInterval))
	positive("OUTBOX_BATCH_SIZE", int64(c.Outbox.BatchSize))
	positive("OUTBOX_MAX_RETRY_ATTEMPTS", int64(c.Outbox.MaxRetryAttempts))

	positive("WORKER_POOL_SIZE", int64(c.WorkerPool.Size))

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, ", "))
	}

	return nil
}
