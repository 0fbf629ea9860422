package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the three servers
type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Logging configuration
	LogLevel  string
	LogFormat string

	// Storage configuration
	UseMemoryStore         bool
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPass                 string
	DBName                 string
	InstanceConnectionName string

	// WhatsApp bot configuration
	WhatsAppStoreDSN string
	BotTimezone      string
	ReplyInGroups    bool
	QRTerminal       bool
	ChatLogRetention time.Duration

	// Twilio configuration (optional second transport)
	TwilioAccountSID         string
	TwilioAuthToken          string
	TwilioWhatsAppFrom       string
	DisableWebhookValidation bool
}

// LoadEnvFiles loads .env files for local development. Missing files are not an error.
func LoadEnvFiles() {
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("environments/.env.development"); err != nil {
			log.Debug().Msg("⚠️  No .env file found - using environment variables")
		}
	}
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENVIRONMENT", "production"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		UseMemoryStore:         getEnvAsBool("USE_MEMORY_STORE", true),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", "5432"),
		DBUser:                 getEnv("DB_USER", "postgres"),
		DBPass:                 getEnv("DB_PASS", ""),
		DBName:                 getEnv("DB_NAME", "autoresponder"),
		InstanceConnectionName: getEnv("INSTANCE_CONNECTION_NAME", ""),

		WhatsAppStoreDSN: getEnv("WHATSAPP_STORE_DSN", "file:store/whatsapp.db?_foreign_keys=on"),
		BotTimezone:      getEnv("BOT_TIMEZONE", "Asia/Kolkata"),
		ReplyInGroups:    getEnvAsBool("BOT_REPLY_IN_GROUPS", false),
		QRTerminal:       getEnvAsBool("QR_TERMINAL", true),
		ChatLogRetention: getEnvAsDuration("CHAT_LOG_RETENTION", 30*24*time.Hour),

		TwilioAccountSID:         getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:          getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom:       getEnv("TWILIO_WHATSAPP_FROM", ""),
		DisableWebhookValidation: getEnvAsBool("DISABLE_WEBHOOK_VALIDATION", false),
	}
}

// HasTwilioConfig returns true if all Twilio credentials are present
func (c *Config) HasTwilioConfig() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppFrom != ""
}

// IsDevelopment returns true when running locally
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// StorageType describes the configured backing store
func (c *Config) StorageType() string {
	if c.UseMemoryStore {
		return "In-Memory"
	}
	return "PostgreSQL Database"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
