package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Posting defaults
	BaseCurrency            string
	RetainedEarningsAccount string
	StandardVATRate         decimal.Decimal

	// Rate limiting, in ulule/limiter notation (e.g. "100-M")
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "finance-posting-app")
	viper.SetDefault("BASE_CURRENCY", "AED")
	viper.SetDefault("RETAINED_EARNINGS_ACCOUNT", "3200")
	viper.SetDefault("STANDARD_VAT_RATE", "0.05")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.RetainedEarningsAccount = viper.GetString("RETAINED_EARNINGS_ACCOUNT")

	vatRateStr := viper.GetString("STANDARD_VAT_RATE")
	vatRate, err := decimal.NewFromString(vatRateStr)
	if err != nil {
		vatRate = decimal.NewFromFloat(0.05)
		log.Printf("Warning: Invalid value for STANDARD_VAT_RATE ('%s'). Defaulting to %s.\n", vatRateStr, vatRate.String())
	}
	cfg.StandardVATRate = vatRate

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
