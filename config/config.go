package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	AuthBackendSQLite   = "sqlite"
	AuthBackendDynamoDB = "dynamodb"
)

const (
	KafkaTopicReviewRaw      = "review-raw"      // single reviews to analyze
	KafkaTopicReviewAnalyzed = "review-analyzed" // batched analysis results
)

type Config struct {
	Env      string
	LogLevel string
	HTTP     HTTPConfig
	Auth     AuthConfig
	AWS      AWSConfig
	Valkey   ValkeyConfig
	Kafka    KafkaConfig
	Batch    BatchConfig
}

type HTTPConfig struct {
	Addr            string
	SessionTTL      time.Duration
	SecureCookies   bool
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	Backend   string
	DataDir   string
	TableName string
}

type AWSConfig struct {
	Region   string
	Endpoint string
}

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
}

// Enabled reports whether a Valkey address is configured.
func (c ValkeyConfig) Enabled() bool {
	return c.Address != ""
}

type KafkaConfig struct {
	Broker       string
	GroupID      string
	InputTopic   string
	ResultsTopic string
	BatchSize    int
	BatchTimeout time.Duration
}

type BatchConfig struct {
	Workers      int
	DisplayLimit int
}

// Load builds the configuration from the environment. Values that fail to
// parse fall back to their defaults with a warning.
func Load() Config {
	return Config{
		Env:      AppEnv(),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":5000"),
			SessionTTL:      getDuration("SESSION_TTL", 24*time.Hour),
			SecureCookies:   getBool("SECURE_COOKIES", false),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Auth: AuthConfig{
			Backend:   strings.ToLower(getEnv("AUTH_BACKEND", AuthBackendSQLite)),
			DataDir:   getEnv("AUTH_DB_DIR", "data"),
			TableName: getEnv("AUTH_TABLE_NAME", "Users"),
		},
		AWS: AWSConfig{
			Region:   getEnv("AWS_REGION", "us-west-2"),
			Endpoint: os.Getenv("AWS_ENDPOINT"),
		},
		Valkey: ValkeyConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			UseTLS:   getBool("VALKEY_TLS", false),
		},
		Kafka: KafkaConfig{
			Broker:       getEnv("KAFKA_BROKER", "localhost:29092"),
			GroupID:      getEnv("KAFKA_CONSUMER_GROUP_ID", "reviewpulse-consumer-group"),
			InputTopic:   getEnv("KAFKA_INPUT_TOPIC", KafkaTopicReviewRaw),
			ResultsTopic: getEnv("KAFKA_RESULTS_TOPIC", KafkaTopicReviewAnalyzed),
			BatchSize:    getInt("KAFKA_BATCH_SIZE", 50),
			BatchTimeout: getDuration("KAFKA_BATCH_TIMEOUT", 5*time.Second),
		},
		Batch: BatchConfig{
			Workers:      getInt("BATCH_WORKERS", 0),
			DisplayLimit: getInt("BATCH_DISPLAY_LIMIT", 200),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw))
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("[Config] Invalid boolean, using default",
			slog.String("key", key),
			slog.String("value", raw))
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("[Config] Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw))
		return defaultValue
	}
	return v
}
