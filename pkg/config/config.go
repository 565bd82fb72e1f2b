package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	RateLimitRequests int64
	RateLimitPeriod   time.Duration

	AllowedOrigins []string

	ImportJobRetention time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file if
// present. Real environment variables override .env values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 300)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("ALLOWED_ORIGINS", "")
	viper.SetDefault("IMPORT_JOB_RETENTION", "24h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.RateLimitRequests = viper.GetInt64("RATE_LIMIT_REQUESTS")
	period, err := time.ParseDuration(viper.GetString("RATE_LIMIT_PERIOD"))
	if err != nil {
		log.Printf("Warning: invalid RATE_LIMIT_PERIOD %q, defaulting to 1m\n", viper.GetString("RATE_LIMIT_PERIOD"))
		period = time.Minute
	}
	cfg.RateLimitPeriod = period

	if raw := viper.GetString("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	retention, err := time.ParseDuration(viper.GetString("IMPORT_JOB_RETENTION"))
	if err != nil {
		log.Printf("Warning: invalid IMPORT_JOB_RETENTION %q, defaulting to 24h\n", viper.GetString("IMPORT_JOB_RETENTION"))
		retention = 24 * time.Hour
	}
	cfg.ImportJobRetention = retention

	return cfg, nil
}
