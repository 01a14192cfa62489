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

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Frontend  FrontendConfig
	CORS      CORSConfig
	Mail      MailConfig
	Redis     RedisConfig
	Queue     QueueConfig
	S3        S3Config
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

type FrontendConfig struct {
	URL string // base for password reset links
}

type CORSConfig struct {
	AllowedOrigins []string
}

// MailConfig is passed to the SMTP sender at construction time.
// Leaving Username or Password empty switches to the log-only sender.
type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (c MailConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

type RedisConfig struct {
	URL          string // empty disables the book cache
	BookCacheTTL time.Duration
}

type QueueConfig struct {
	RedisURL    string // empty sends mail inline instead of through asynq
	Concurrency int
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type SchedulerConfig struct {
	ResetSweepSchedule string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "5005"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "bookshelf"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("TOKEN_SECRET", ""),
			TokenExpiry: parseDuration(getEnv("JWT_EXPIRY", "6h"), 6*time.Hour),
		},
		Frontend: FrontendConfig{
			URL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", getEnv("SMTP_USERNAME", "")),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			BookCacheTTL: parseDuration(getEnv("BOOK_CACHE_TTL", "5m"), 5*time.Minute),
		},
		Queue: QueueConfig{
			RedisURL:    getEnv("QUEUE_REDIS_URL", ""),
			Concurrency: parseInt(getEnv("QUEUE_CONCURRENCY", "2"), 2),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "bookshelf-covers"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Scheduler: SchedulerConfig{
			ResetSweepSchedule: getEnv("RESET_SWEEP_SCHEDULE", "@every 30m"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET must be set")
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
