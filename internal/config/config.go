package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	DB           DatabaseConfig
	Redis        RedisConfig
	SMTP         SMTPConfig
	Session      SessionConfig
	Logging      LoggingConfig
	GinMode      string
	OpenAIAPIKey string
}

type ServerConfig struct {
	Host string
	Port string
	// BaseURL is used to build shareable invite links.
	BaseURL string
}

// DatabaseConfig selects the GORM driver. Driver is one of
// "sqlite", "mysql", "postgres". Path is only used by sqlite.
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// RedisConfig is optional; when Host is empty the session store
// falls back to signed cookies.
type RedisConfig struct {
	Host string
	Port string
}

// SMTPConfig is optional; when Host is empty invite and moderation
// mail is disabled.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SessionConfig struct {
	Secret string
}

type LoggingConfig struct {
	Level string
}

// Load reads configuration from the environment, after loading a .env
// file if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", ""),
			Port:    getEnv("SERVER_PORT", "8080"),
			BaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),
		},
		DB: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "./izwi.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "izwi"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "izwi"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", ""),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "alerts@izwi.app"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		GinMode:      getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	switch c.DB.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("invalid DB_DRIVER: %s", c.DB.Driver)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
