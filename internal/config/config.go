package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/simaogato/sdl-backend/internal/domain"
)

// Config holds the server settings read from the environment
type Config struct {
	// Database
	DBConnStr  string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis (cache disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Application
	GRPCAddr     string
	APIToken     string
	DefaultScale int32
}

// Load reads a .env file when present and falls back to the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ttlSeconds, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %w", err)
	}
	if ttlSeconds <= 0 {
		return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: must be positive, got %d", ttlSeconds)
	}

	scale, err := strconv.ParseInt(getEnv("DEFAULT_SCALE", "2"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_SCALE: %w", err)
	}
	if scale < 0 {
		return nil, fmt.Errorf("invalid DEFAULT_SCALE: must not be negative, got %d", scale)
	}
	if scale > int64(domain.MaxScale) {
		return nil, fmt.Errorf("invalid DEFAULT_SCALE: must not exceed %d, got %d", domain.MaxScale, scale)
	}

	return &Config{
		DBConnStr:  os.Getenv("DB_CONN_STR"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "sdl"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		CacheTTL:      time.Duration(ttlSeconds) * time.Second,

		GRPCAddr:     getEnv("GRPC_ADDR", ":8080"),
		APIToken:     getEnv("API_TOKEN", "dev-token"),
		DefaultScale: int32(scale),
	}, nil
}

// DatabaseURL returns DB_CONN_STR when set, otherwise builds it from the individual vars (Docker friendly)
func (c *Config) DatabaseURL() string {
	if c.DBConnStr != "" {
		return c.DBConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// CacheEnabled reports whether plan lookups go through Redis
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
