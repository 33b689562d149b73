package config

import (
	"os"
	"strconv"
	"time"
)

// StagingConfig holds settings for the upload staging area.
type StagingConfig struct {
	Backend          string // "local" or "minio"
	Dir              string
	MaxAgeSec        int
	SweepIntervalSec int
}

// MaxAge returns the staleness threshold for staged files.
func (c StagingConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeSec) * time.Second
}

// SweepInterval returns how often the background sweeper runs. Zero disables it.
func (c StagingConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSec) * time.Second
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds the session registry connection. An empty URL selects the in-memory registry.
type RedisConfig struct {
	URL string
}

// SessionConfig holds settings for session id transport.
type SessionConfig struct {
	CookieName string
}

// AssistantConfig holds settings for the text-generation provider.
type AssistantConfig struct {
	Provider     string // "gemini", "openai" or "ollama"
	Model        string
	Temperature  float64
	TimeoutSec   int
	GeminiAPIKey string
	OpenAIAPIKey string
	OllamaURL    string
}

// Timeout returns the per-call deadline for suggestions.
func (c AssistantConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	BodyLimitMB int
	Staging     StagingConfig
	MinIO       MinIOConfig
	Redis       RedisConfig
	Session     SessionConfig
	Assistant   AssistantConfig
	Logging     LoggingConfig
	Axiom       AxiomConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 32),
		Staging: StagingConfig{
			Backend:          getEnv("STAGING_BACKEND", "local"),
			Dir:              getEnv("STAGING_DIR", "uploads"),
			MaxAgeSec:        getEnvInt("STAGING_MAX_AGE_SEC", 3600),
			SweepIntervalSec: getEnvInt("STAGING_SWEEP_INTERVAL_SEC", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "portfolio_session"),
		},
		Assistant: AssistantConfig{
			Provider:     getEnv("ASSISTANT_PROVIDER", "gemini"),
			Model:        getEnv("ASSISTANT_MODEL", ""),
			Temperature:  getEnvFloat("ASSISTANT_TEMPERATURE", 0.7),
			TimeoutSec:   getEnvInt("ASSISTANT_TIMEOUT_SEC", 30),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			OllamaURL:    getEnv("OLLAMA_URL", "http://localhost:11434"),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Pretty:     getEnvBool("LOG_PRETTY", false),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 10),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Axiom: AxiomConfig{
			Send:          getEnvBool("SEND_LOGS_TO_AXIOM", false),
			APIKey:        getEnv("AXIOM_API_KEY", ""),
			OrgID:         getEnv("AXIOM_ORG_ID", ""),
			Dataset:       getEnv("AXIOM_DATASET", "dev") + "_portfolioapi",
			FlushInterval: time.Duration(getEnvInt("AXIOM_FLUSH_INTERVAL_SEC", 10)) * time.Second,
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
