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
	Cache     CacheConfig
	LLM       LLMConfig
	Interview InterviewConfig
	Qdrant    QdrantConfig
	Storage   StorageConfig
	Janitor   JanitorConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string
}

type CacheConfig struct {
	Driver     string
	RedisURL   string
	BadgerPath string
	SessionTTL time.Duration
}

// LLMConfig configures the primary (OpenAI-compatible, Groq by default)
// and fallback (Gemini) generation backends.
type LLMConfig struct {
	PrimaryAPIKey  string
	PrimaryModel   string
	PrimaryBaseURL string
	GeminiAPIKey   string
	FallbackModel  string
	EmbedModel     string
	Temperature    float32
	RetryCount     int
	RetryDelay     time.Duration
	Timeout        time.Duration
	RatePerMinute  int
}

type InterviewConfig struct {
	MaxQuestions    int
	MaxFollowUps    int
	PromptGuardFile string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type JanitorConfig struct {
	Interval      time.Duration
	RetentionDays int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_simulator"),
			Path:     getEnv("DB_PATH", "./data/interview.db"),
		},
		Cache: CacheConfig{
			Driver:     strings.ToLower(getEnv("CACHE_DRIVER", "redis")),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379/0"),
			BadgerPath: getEnv("BADGER_PATH", "./data/cache"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", "2h"),
		},
		LLM: LLMConfig{
			PrimaryAPIKey:  getEnv("GROQ_API_KEY", ""),
			PrimaryModel:   getEnv("PRIMARY_MODEL", "llama-3.3-70b-versatile"),
			PrimaryBaseURL: getEnv("PRIMARY_BASE_URL", "https://api.groq.com/openai/v1"),
			GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
			FallbackModel:  getEnv("FALLBACK_MODEL", "gemini-2.5-flash"),
			EmbedModel:     getEnv("EMBED_MODEL", "text-embedding-004"),
			Temperature:    getEnvAsFloat32("LLM_TEMPERATURE", 0.7),
			RetryCount:     getEnvAsInt("LLM_RETRY_COUNT", 2),
			RetryDelay:     getEnvAsDuration("LLM_RETRY_DELAY", "3s"),
			Timeout:        getEnvAsDuration("LLM_TIMEOUT", "60s"),
			RatePerMinute:  getEnvAsInt("LLM_RATE_PER_MINUTE", 0),
		},
		Interview: InterviewConfig{
			MaxQuestions:    getEnvAsInt("MAX_QUESTIONS", 8),
			MaxFollowUps:    getEnvAsInt("MAX_FOLLOW_UPS", 1),
			PromptGuardFile: getEnv("PROMPT_GUARD_FILE", ""),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_rubrics"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Janitor: JanitorConfig{
			Interval:      getEnvAsDuration("CLEANUP_INTERVAL", "24h"),
			RetentionDays: getEnvAsInt("RETENTION_DAYS", 30),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}

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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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
