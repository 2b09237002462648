package config

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds application configuration.
type AppConfig struct {
	Port         string
	Environment  string
	IsProduction bool
	DatabaseURL  string
	LogLevel     slog.Level

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RateLimit        string
	CORSAllowOrigins string

	AuditFlushBatchSize   int
	SequencePadding       int
	SequenceDefaultPrefix string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Environment variables win over .env values, which win over the
// defaults set here.
func LoadConfig() (*AppConfig, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_HOUR", 24)
	viper.SetDefault("JWT_ISSUER", "ledger-engine")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")
	viper.SetDefault("AUDIT_FLUSH_BATCH_SIZE", 200)
	viper.SetDefault("SEQUENCE_PADDING", 6)
	viper.SetDefault("SEQUENCE_DEFAULT_PREFIX", "TXN")

	viper.AutomaticEnv()

	cfg := &AppConfig{}

	cfg.Port = viper.GetString("PORT")
	cfg.Environment = viper.GetString("ENVIRONMENT")
	cfg.IsProduction = strings.EqualFold(cfg.Environment, "production")

	cfg.DatabaseURL = viper.GetString("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL environment variable not set.")
	}

	cfg.LogLevel = parseLogLevel(viper.GetString("LOG_LEVEL"))

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" && cfg.IsProduction {
		log.Println("Warning: JWT_SECRET is the insecure default in production.")
	}

	expiryHours := viper.GetInt("JWT_EXPIRY_HOUR")
	if expiryHours <= 0 {
		expiryHours = 24
		log.Printf("Warning: Invalid JWT_EXPIRY_HOUR. Defaulting to %d hours.\n", expiryHours)
	}
	cfg.JWTExpiryDuration = time.Duration(expiryHours) * time.Hour
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowOrigins = viper.GetString("CORS_ALLOW_ORIGINS")

	cfg.AuditFlushBatchSize = viper.GetInt("AUDIT_FLUSH_BATCH_SIZE")
	if cfg.AuditFlushBatchSize <= 0 {
		cfg.AuditFlushBatchSize = 200
		log.Printf("Warning: Invalid AUDIT_FLUSH_BATCH_SIZE. Defaulting to %d.\n", cfg.AuditFlushBatchSize)
	}

	cfg.SequencePadding = viper.GetInt("SEQUENCE_PADDING")
	if cfg.SequencePadding <= 0 {
		cfg.SequencePadding = 6
		log.Printf("Warning: Invalid SEQUENCE_PADDING. Defaulting to %d.\n", cfg.SequencePadding)
	}
	cfg.SequenceDefaultPrefix = viper.GetString("SEQUENCE_DEFAULT_PREFIX")
	if cfg.SequenceDefaultPrefix == "" {
		cfg.SequenceDefaultPrefix = "TXN"
	}

	return cfg, nil
}

// parseLogLevel maps a LOG_LEVEL string to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
