package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	GinMode     string

	DBDriver    string
	DatabaseURL string

	JWTSecret      string
	GoogleAPIKey   string
	Testing        bool
	GeocodeTimeout time.Duration

	CORSAllowOrigins []string
}

// LoadConfig reads the process environment. godotenv is expected to have
// populated it already.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnvWithDefault("PORT", "8080"),
		Environment:      getEnvWithDefault("ENVIRONMENT", "development"),
		GinMode:          os.Getenv("GIN_MODE"),
		DBDriver:         strings.ToLower(getEnvWithDefault("DB_DRIVER", "postgres")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET_KEY"),
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		CORSAllowOrigins: splitList(getEnvWithDefault("CORS_ALLOW_ORIGINS", "*")),
	}

	testing, err := parseBool("TESTING", false)
	if err != nil {
		return nil, err
	}
	cfg.Testing = testing

	timeout, err := time.ParseDuration(getEnvWithDefault("GEOCODE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("GEOCODE_TIMEOUT: %w", err)
	}
	cfg.GeocodeTimeout = timeout

	if cfg.DatabaseURL == "" && cfg.DBDriver == "postgres" {
		cfg.DatabaseURL = postgresDSNFromParts()
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if !cfg.Testing && cfg.GoogleAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required unless TESTING is set")
	}

	return cfg, nil
}

// postgresDSNFromParts builds a DSN from the DB_* variables. Returns "" when
// DB_HOST is unset.
func postgresDSNFromParts() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host,
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getEnvWithDefault("DB_PORT", "5432"),
	)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
