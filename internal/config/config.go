package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds application configuration
type Config struct {
	Port                string
	LogLevel            string
	StoreDriver         string
	MongoURI            string
	MongoDatabase       string
	StoreTimeout        time.Duration
	JWTSecret           string
	TokenTTL            time.Duration
	HealthCheckSchedule string
	AllowedOrigins      []string
	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	SenderEmail         string
}

// NewConfig loads configuration from the environment, reading .env first when present
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	tokenTTL, err := ParseLifetime(getEnv("EXPIRES_IN", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPIRES_IN: %w", err)
	}
	storeTimeout, err := time.ParseDuration(getEnv("STORE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:                getEnv("PORT", "5000"),
		LogLevel:            getEnv("LOG_LEVEL", "INFO"),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:            getEnv("MONGODB_URI", ""),
		MongoDatabase:       getEnv("MONGODB_DATABASE", "Grocery-Store"),
		StoreTimeout:        storeTimeout,
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenTTL:            tokenTTL,
		HealthCheckSchedule: getEnv("HEALTHCHECK_SCHEDULE", "@every 30s"),
		AllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnv("SMTP_PORT", "587"),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		SenderEmail:         getEnv("SENDER_EMAIL", ""),
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI is required")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("EXPIRES_IN must be positive")
	}

	return cfg, nil
}

// MailEnabled reports whether outgoing mail is configured
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

// ParseLifetime parses a token lifetime. It accepts Go durations ("90m"),
// day counts ("7d") and bare seconds ("3600").
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty lifetime")
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n * float64(24*time.Hour)), nil
	}
	return time.ParseDuration(s)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
