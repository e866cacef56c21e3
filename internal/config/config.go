package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/finze/finze-backend/internal/insights"
	"github.com/finze/finze-backend/internal/util"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string
	AutoMigrate bool

	// Server
	Port        string
	CORSOrigins []string
	Env         string
	LogLevel    zerolog.Level

	// Rate limiting per user
	RateLimit RateLimitConfig

	// Insight engine thresholds
	Engine insights.Config
}

// RateLimitConfig holds the token bucket settings of the API
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// IsProduction reports whether ENV is set to production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	engine, err := engineFromEnv()
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	perMinute, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 100)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	autoMigrate, err := getEnvBool("AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AutoMigrate: autoMigrate,
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:         getEnv("ENV", "development"),
		LogLevel:    level,
		RateLimit: RateLimitConfig{
			RequestsPerMinute: perMinute,
			Burst:             burst,
		},
		Engine: engine,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEngine reads only the engine thresholds. Offline tools use it when no
// database is involved.
func LoadEngine() (insights.Config, error) {
	_ = godotenv.Load()

	cfg, err := engineFromEnv()
	if err != nil {
		return insights.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return insights.Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	return c.Engine.Validate()
}

func engineFromEnv() (insights.Config, error) {
	cfg := insights.DefaultConfig()

	thresholds := []struct {
		key    string
		target *decimal.Decimal
	}{
		{"TREND_THRESHOLD_PERCENT", &cfg.TrendThresholdPercent},
		{"WARNING_THRESHOLD", &cfg.WarningThreshold},
		{"CRITICAL_THRESHOLD", &cfg.CriticalThreshold},
		{"EXCEEDED_THRESHOLD", &cfg.ExceededThreshold},
		{"CONCENTRATION_THRESHOLD", &cfg.ConcentrationThreshold},
	}
	for _, th := range thresholds {
		raw := getEnv(th.key, "")
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return insights.Config{}, fmt.Errorf("%s: invalid number %q", th.key, raw)
		}
		*th.target = v
	}

	if raw := getEnv("WEEK_START", ""); raw != "" {
		day, ok := util.ParseWeekday(strings.TrimSpace(raw))
		if !ok {
			return insights.Config{}, fmt.Errorf("WEEK_START: unknown weekday %q", raw)
		}
		cfg.WeekStart = day
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return v, nil
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
