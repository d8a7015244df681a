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
	Log       LogConfig
	Database  DatabaseConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	LLM       LLMConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
}

// LLMConfig selects the completion models and their call shape.
type LLMConfig struct {
	Model                   string
	Temperature             *float32
	MaxOutputTokens         int
	FallbackModel           string
	FallbackMaxOutputTokens int
	ReasoningPrefixes       []string
	CompletionTimeout       time.Duration
	FetchTimeout            time.Duration
}

type UploadConfig struct {
	MaxFileSize int64
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type AuditConfig struct {
	Enabled bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "3001"),
			Env:         getEnv("ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_matcher"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		LLM: LLMConfig{
			Model:                   getEnv("LLM_MODEL", "gpt-5-mini"),
			Temperature:             getEnvAsFloat32Ptr("LLM_TEMPERATURE"),
			MaxOutputTokens:         getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 4000),
			FallbackModel:           getEnv("LLM_FALLBACK_MODEL", "gpt-4o-mini"),
			FallbackMaxOutputTokens: getEnvAsInt("LLM_FALLBACK_MAX_OUTPUT_TOKENS", 1200),
			ReasoningPrefixes:       getEnvAsList("LLM_REASONING_PREFIXES", "o1,o3,o4,gpt-5"),
			CompletionTimeout:       getEnvAsDuration("COMPLETION_TIMEOUT", "90s"),
			FetchTimeout:            getEnvAsDuration("FETCH_TIMEOUT", "15s"),
		},
		Upload: UploadConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvAsInt("RATE_LIMIT_MAX", 5),
			Window: getEnvAsDuration("RATE_LIMIT_WINDOW", "1h"),
		},
		Audit: AuditConfig{
			Enabled: getEnvAsBool("AUDIT_ENABLED", false),
		},
	}
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat32Ptr returns nil when the key is unset or unparsable so the
// caller can fall back to the model family default.
func getEnvAsFloat32Ptr(key string) *float32 {
	valueStr := getEnv(key, "")
	value, err := strconv.ParseFloat(valueStr, 32)
	if err != nil {
		return nil
	}
	f := float32(value)
	return &f
}

func getEnvAsList(key, defaultValue string) []string {
	var items []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil && duration > 0 {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
