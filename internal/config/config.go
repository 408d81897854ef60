package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/civicwatch/infra-report-api/internal/constants"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost string
	RedisPort string

	SessionSecret string
	GinMode       string
	Port          string

	QueryTimeout    time.Duration
	StatsWindowDays int

	DefaultAdminPassword string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "reportuser"),
		DBPassword: getEnv("DB_PASSWORD", "reportpassword"),
		DBName:     getEnv("DB_NAME", "infrastructure_db"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		Port:          getEnv("PORT", "8080"),

		QueryTimeout:    getDuration("QUERY_TIMEOUT", 5*time.Second),
		StatsWindowDays: getInt("STATS_WINDOW_DAYS", constants.DefaultStatsWindowDays),

		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
