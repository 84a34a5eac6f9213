package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is required")

type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Upload   UploadConfig
	Qdrant   QdrantConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	AllowOrigins string
}

type GeminiConfig struct {
	APIKey            string
	Model             string
	EmbedModel        string
	Timeout           time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

type UploadConfig struct {
	MaxFileSize int64
}

// QdrantConfig points at the learning catalog. An empty URL disables
// catalog grounding.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	TopK       int
	Timeout    time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type CatalogConfig struct {
	Path string
}

type WorkerConfig struct {
	Concurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			Env:          getEnv("ENV", "development"),
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Gemini: GeminiConfig{
			APIKey:            getEnv("GEMINI_API_KEY", ""),
			Model:             getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel:        getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			Timeout:           getEnvAsDuration("GEMINI_TIMEOUT", "60s"),
			RetryMaxAttempts:  getEnvAsInt("GEMINI_RETRY_MAX_ATTEMPTS", 1),
			RetryInitialDelay: getEnvAsDuration("GEMINI_RETRY_INITIAL_DELAY", "500ms"),
		},
		Upload: UploadConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "career_catalog"),
			TopK:       getEnvAsInt("QDRANT_TOP_K", 5),
			Timeout:    getEnvAsDuration("QDRANT_TIMEOUT", "3s"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "career_advisor"),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", "./catalog_docs"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
		},
	}
}

// Validate reports configuration the process cannot start without.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Gemini.Timeout <= 0 {
		return fmt.Errorf("GEMINI_TIMEOUT must be positive, got %s", c.Gemini.Timeout)
	}
	if c.Gemini.RetryMaxAttempts < 1 {
		return fmt.Errorf("GEMINI_RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.Gemini.RetryMaxAttempts)
	}
	return nil
}

func (c *Config) CatalogEnabled() bool {
	return c.Qdrant.URL != ""
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
