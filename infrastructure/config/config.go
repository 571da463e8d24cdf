// Package config holds the explicit configuration struct passed to every
// component. Values come from environment variables with CLI flags layered
// on top; nothing reads the environment past startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	apperrors "ddbench/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	Environment string `validate:"required,oneof=development production"`

	// AWS configuration
	AWSRegion        string `validate:"required"`
	SingleTable      string `validate:"required"`
	SingleTableIndex string `validate:"required"` // GSI1, overloaded
	MultiTablePrefix string `validate:"required"`
	ByUserIndexName  string `validate:"required"` // posts GSI keyed on userId
	ByPostIndexName  string `validate:"required"` // comments GSI keyed on postId

	// Dataset cardinalities
	Users            int `validate:"min=0"`
	OrdersPerUser    int `validate:"min=0"`
	PostsPerUser     int `validate:"min=0"`
	CommentsPerPost  int `validate:"min=0"`
	FollowersPerUser int `validate:"min=0"`
	LikesPerPost     int `validate:"min=0"`
	Seed             int64

	// Battery parameters
	Runs       int    `validate:"min=1"`
	ShardCount int    `validate:"min=1,max=64"`
	RangeFrom  string // YYYY-MM-DD, empty disables the range pattern
	RangeTo    string

	// Output
	ResultsPath   string `validate:"required"`
	ServerAddress string

	// Optional integrations
	EnableMetrics    bool
	MetricsNamespace string
	EnableTracing    bool
	EventBusName     string

	// Logging
	LogLevel string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),

		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		SingleTable:      getEnv("SINGLE_TABLE", "ddbench-single"),
		SingleTableIndex: getEnv("SINGLE_TABLE_INDEX", "GSI1"),
		MultiTablePrefix: getEnv("MULTI_TABLE_PREFIX", "ddbench"),
		ByUserIndexName:  getEnv("BY_USER_INDEX", "byUser"),
		ByPostIndexName:  getEnv("BY_POST_INDEX", "byPost"),

		Users:            getEnvInt("USERS", 25),
		OrdersPerUser:    getEnvInt("ORDERS_PER_USER", 10),
		PostsPerUser:     getEnvInt("POSTS_PER_USER", 5),
		CommentsPerPost:  getEnvInt("COMMENTS_PER_POST", 3),
		FollowersPerUser: getEnvInt("FOLLOWERS_PER_USER", 4),
		LikesPerPost:     getEnvInt("LIKES_PER_POST", 2),
		Seed:             int64(getEnvInt("DATASET_SEED", 1)),

		Runs:       getEnvInt("RUNS", 5),
		ShardCount: getEnvInt("SHARD_COUNT", 1),
		RangeFrom:  getEnv("RANGE_FROM", ""),
		RangeTo:    getEnv("RANGE_TO", ""),

		ResultsPath:   getEnv("RESULTS_PATH", "ddbench-results.json"),
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),

		EnableMetrics:    getEnvBool("ENABLE_METRICS", false),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "DDBench"),
		EnableTracing:    getEnvBool("ENABLE_TRACING", false),
		EventBusName:     getEnv("EVENT_BUS_NAME", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks structural constraints and cross-field rules. A failure
// here aborts before any measurement is taken.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError(err.Error())
	}
	if (c.RangeFrom == "") != (c.RangeTo == "") {
		return apperrors.NewConfigError("RANGE_FROM and RANGE_TO must be set together")
	}
	return nil
}

// MultiTable returns the full name of a per-entity table in the multi-table
// design.
func (c *Config) MultiTable(entity string) string {
	return fmt.Sprintf("%s-%s", c.MultiTablePrefix, entity)
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
