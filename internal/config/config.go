package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Logging     LoggingConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Auth        AuthConfig
	Alerts      AlertsConfig
	Tracing     TracingConfig
	Environment string
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// CORSConfig controls the CORS middleware. The device-facing surface has
// historically allowed every origin, so AllowAllOrigins defaults to true and
// a drop-in deployment keeps that behavior.
type CORSConfig struct {
	AllowAllOrigins bool
	AllowedOrigins  []string
}

type RateLimitConfig struct {
	DevicePerMinute int
	AdminPerMinute  int
}

// AuthConfig holds the admin API key used by the roster endpoints. Either the
// plain key (development) or its bcrypt hash (production) may be supplied.
type AuthConfig struct {
	AdminAPIKey     string
	AdminAPIKeyHash string
}

type AlertsConfig struct {
	Enabled      bool
	ResendAPIKey string
	From         string
	To           string
	FacilityName string
}

type TracingConfig struct {
	Enabled      bool
	Exporter     string
	ServiceName  string
	OTLPEndpoint string
	SampleRate   float64
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 4000),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConnections: getEnvInt("DATABASE_MAX_CONNECTIONS", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		CORS: CORSConfig{
			AllowAllOrigins: getEnvBool("CORS_ALLOW_ALL_ORIGINS", true),
			AllowedOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
		RateLimit: RateLimitConfig{
			DevicePerMinute: getEnvInt("RATE_LIMIT_DEVICE", 0),
			AdminPerMinute:  getEnvInt("RATE_LIMIT_ADMIN", 60),
		},
		Auth: AuthConfig{
			AdminAPIKey:     getEnv("ADMIN_API_KEY", ""),
			AdminAPIKeyHash: getEnv("ADMIN_API_KEY_HASH", ""),
		},
		Alerts: AlertsConfig{
			Enabled:      getEnvBool("ALERTS_ENABLED", false),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("ALERTS_FROM", ""),
			To:           getEnv("ALERTS_TO", ""),
			FacilityName: getEnv("FACILITY_NAME", "facility"),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvBool("TRACING_ENABLED", false),
			Exporter:     getEnv("TRACING_EXPORTER", "none"),
			ServiceName:  getEnv("TRACING_SERVICE_NAME", "gatelog"),
			OTLPEndpoint: getEnv("TRACING_OTLP_ENDPOINT", "localhost:4317"),
			SampleRate:   getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Alerts.Enabled {
		if cfg.Alerts.ResendAPIKey == "" {
			return Config{}, fmt.Errorf("RESEND_API_KEY is required when ALERTS_ENABLED=true")
		}
		if cfg.Alerts.From == "" || cfg.Alerts.To == "" {
			return Config{}, fmt.Errorf("ALERTS_FROM and ALERTS_TO are required when ALERTS_ENABLED=true")
		}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
