package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL      string
	ServerPort      string
	SessionSecret   string
	DBDSN           string // empty disables the audit trail
	Environment     string
	LogLevel        string
	LogFile         string
	DefaultPageSize int
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("APP_ENV"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFile:       os.Getenv("LOG_FILE"),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:8080/api"
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.ServerPort == "" {
		cfg.ServerPort = "3000"
	}
	if cfg.Environment == "" {
		cfg.Environment = "dev"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}

	cfg.DefaultPageSize = 10
	if s := os.Getenv("DEFAULT_PAGE_SIZE"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			log.Fatalf("invalid DEFAULT_PAGE_SIZE: %q", s)
		}
		cfg.DefaultPageSize = n
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}
