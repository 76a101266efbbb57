package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DatabaseURL string
	RedisURL    string
	Port        string
	Env         string
	FrontendURL string

	// Auth
	JWTSecret           string
	AccessTokenExpiryMin int
	SessionSecret       string
	EncryptionKey       string

	// Google
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// AI extraction
	GroqAPIKey string
	GroqModel  string
	AIStubMode bool

	// Notion
	NotionAPIKey       string
	NotionDatabaseID   string
	NotionClientID     string
	NotionClientSecret string

	// Granola
	GranolaAPIKey string

	// Scheduler
	BriefSchedule    string
	ReminderSchedule string
	BriefTimezone    string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first if present (ignored when absent).
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration overrides from .env")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),
		Port:        getEnvWithDefault("PORT", "8080"),
		Env:         getEnvWithDefault("ENV", "development"),
		FrontendURL: getEnvWithDefault("FRONTEND_URL", "http://localhost:5137"),

		JWTSecret:            os.Getenv("JWT_SECRET"),
		AccessTokenExpiryMin: 60,
		SessionSecret:        os.Getenv("SESSION_SECRET"),
		EncryptionKey:        os.Getenv("TOKEN_ENCRYPTION_KEY"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),

		GroqAPIKey: os.Getenv("GROQ_API_KEY"),
		GroqModel:  getEnvWithDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
		AIStubMode: os.Getenv("AI_STUB_MODE") == "true",

		NotionAPIKey:       os.Getenv("NOTION_API_KEY"),
		NotionDatabaseID:   os.Getenv("NOTION_DATABASE_ID"),
		NotionClientID:     os.Getenv("NOTION_CLIENT_ID"),
		NotionClientSecret: os.Getenv("NOTION_CLIENT_SECRET"),

		GranolaAPIKey: os.Getenv("GRANOLA_API_KEY"),

		BriefSchedule:    getEnvWithDefault("BRIEF_SCHEDULE", "0 9 * * *"),
		ReminderSchedule: getEnvWithDefault("REMINDER_SCHEDULE", "0 17 * * *"),
		BriefTimezone:    getEnvWithDefault("BRIEF_TIMEZONE", "UTC"),

		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),
	}

	// Warn if using default secrets (insecure for production)
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		log.Println("WARNING: Using default JWT_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.JWTSecret
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
