package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"carhaul_tracker/internal/logger"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreJSON     = "json"
	StorePostgres = "postgres"
)

// Config is everything the server and fleetctl need to start.
type Config struct {
	Port        string
	DataDir     string
	StoreDriver string
	CORSOrigins []string
	DB          DBConfig
	Log         logger.Options
}

// DBConfig describes the PostgreSQL connection used when StoreDriver is
// "postgres". SQLDriver picks the database/sql driver under GORM: "pgx"
// (default) or "postgres" for lib/pq.
type DBConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	Name      string
	SSLMode   string
	TimeZone  string
	SQLDriver string
}

// DSN builds the key/value data source name understood by both drivers.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

// Load reads .env (if present) and then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	defaults := logger.DefaultOptions()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DataDir:     getEnv("DATA_DIR", "data"),
		StoreDriver: getEnv("STORE_DRIVER", StoreJSON),
		CORSOrigins: getEnvAsList("CORS_ORIGINS"),
		DB: DBConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "5432"),
			User:      getEnv("DB_USER", "postgres"),
			Password:  getEnv("DB_PASSWORD", "password"),
			Name:      getEnv("DB_NAME", "carhaul"),
			SSLMode:   getEnv("DB_SSLMODE", "disable"),
			TimeZone:  getEnv("DB_TIMEZONE", "UTC"),
			SQLDriver: getEnv("DB_SQL_DRIVER", "pgx"),
		},
		Log: logger.Options{
			Level:      getEnv("LOG_LEVEL", defaults.Level),
			File:       getEnv("LOG_FILE", defaults.File),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", defaults.MaxSize),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", defaults.MaxBackups),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", defaults.MaxAge),
			Compress:   getEnvAsBool("LOG_COMPRESS", defaults.Compress),
			Stdout:     getEnvAsBool("LOG_STDOUT", false),
		},
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, exists := os.LookupEnv(key)
	if !exists || v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v, exists := os.LookupEnv(key)
	if !exists || v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return b
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
