package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration (finalize locks)
	Redis RedisConfig

	// Payment gateway configuration
	Stripe StripeConfig

	// Video provider configuration
	Video VideoConfig

	// Email gateway configuration
	Mail MailConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StripeConfig holds payment gateway configuration
type StripeConfig struct {
	SecretKey string // Stripe secret key (never expose to client)
	APIURL    string // Override for testing; defaults to live API
	Currency  string
	Timeout   time.Duration
}

// VideoConfig holds video-room provider and token signing configuration
type VideoConfig struct {
	APIURL     string // Room provider REST endpoint
	APIKey     string // Room provider API key
	Domain     string // Room URL domain, e.g. mentorlink.daily.co
	AppID      string // Token audience / app identifier
	AppSecret  string // Token signing secret (SECRET - never expose to client)
	TokenTTL   time.Duration
	Timeout    time.Duration
	MaxCallers int // Capacity cap per room
}

// MailConfig holds outbound email gateway configuration
type MailConfig struct {
	Mode    string // "dev" logs instead of sending, "production" sends
	APIURL  string
	APIKey  string
	From    string
	Timeout time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			APIURL:    getEnv("STRIPE_API_URL", "https://api.stripe.com/v1"),
			Currency:  getEnv("STRIPE_CURRENCY", "usd"),
			Timeout:   time.Duration(getEnvAsInt("STRIPE_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Video: VideoConfig{
			APIURL:     getEnv("VIDEO_API_URL", "https://api.daily.co/v1"),
			APIKey:     getEnv("VIDEO_API_KEY", ""),
			Domain:     getEnv("VIDEO_DOMAIN", "mentorlink.daily.co"),
			AppID:      getEnv("VIDEO_APP_ID", ""),
			AppSecret:  getEnv("VIDEO_APP_SECRET", ""),
			TokenTTL:   time.Duration(getEnvAsInt("VIDEO_TOKEN_TTL_SECONDS", 7200)) * time.Second,
			Timeout:    time.Duration(getEnvAsInt("VIDEO_TIMEOUT_SECONDS", 5)) * time.Second,
			MaxCallers: getEnvAsInt("VIDEO_MAX_PARTICIPANTS", 2),
		},
		Mail: MailConfig{
			Mode:    getEnv("MAIL_MODE", "dev"), // "dev" or "production"
			APIURL:  getEnv("MAIL_API_URL", "https://api.resend.com"),
			APIKey:  getEnv("MAIL_API_KEY", ""),
			From:    getEnv("MAIL_FROM", "MentorLink <bookings@mentorlink.app>"),
			Timeout: time.Duration(getEnvAsInt("MAIL_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Server.Environment == "production" {
		if c.Stripe.SecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required in production")
		}
		if c.Video.AppSecret == "" || c.Video.AppID == "" {
			return fmt.Errorf("VIDEO_APP_ID and VIDEO_APP_SECRET are required in production")
		}
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvAsSlice gets an environment variable as a comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
