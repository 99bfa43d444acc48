package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Claude   ClaudeConfig
	AI       AIConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Scoring  ScoringConfig
	OCR      OCRConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	DefaultLocale string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type ClaudeConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// AIConfig selects and tunes the external scorer.
type AIConfig struct {
	Provider           string
	Temperature        float32
	MaxRetries         int
	RateLimitPerMinute int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

type ScoringConfig struct {
	AITimeout        time.Duration
	FallbackDelay    time.Duration
	ProgressInterval time.Duration
}

type OCRConfig struct {
	Tesseract   string
	Language    string
	TessdataDir string
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
			Port:          getEnv("PORT", "3000"),
			Env:           getEnv("ENV", "development"),
			DefaultLocale: getEnv("DEFAULT_LOCALE", "vi"),
			ReadTimeout:   getEnvAsDuration("SERVER_READ_TIMEOUT", "30s"),
			// must outlive SCORING_AI_TIMEOUT plus the fallback delay
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "150s"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "jobify"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "cv_scoring_rubrics"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Claude: ClaudeConfig{
			APIKey:    getEnv("CLAUDE_API_KEY", ""),
			Model:     getEnv("CLAUDE_MODEL", "claude-3-7-sonnet-latest"),
			MaxTokens: getEnvAsInt("CLAUDE_MAX_TOKENS", 4096),
		},
		AI: AIConfig{
			Provider:           getEnv("AI_PROVIDER", "gemini"),
			Temperature:        getEnvAsFloat32("AI_TEMPERATURE", 0.3),
			MaxRetries:         getEnvAsInt("RETRY_MAX_ATTEMPTS", 2),
			RateLimitPerMinute: getEnvAsInt("AI_RATE_LIMIT_PER_MINUTE", 30),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads/tmp"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 3),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
		Scoring: ScoringConfig{
			AITimeout:        getEnvAsDuration("SCORING_AI_TIMEOUT", "120s"),
			FallbackDelay:    getEnvAsDuration("SCORING_FALLBACK_DELAY", "3s"),
			ProgressInterval: getEnvAsDuration("SCORING_PROGRESS_INTERVAL", "1s"),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT_PATH", "tesseract"),
			Language:    getEnv("TESSERACT_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_DIR", ""),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
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

// RubricRetrievalEnabled reports whether Qdrant-backed prompt context can be used.
func (c *Config) RubricRetrievalEnabled() bool {
	return c.Qdrant.URL != "" && c.Gemini.APIKey != ""
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
