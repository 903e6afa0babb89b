package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	ListenAddr   string
	DatabaseURL  string
	JWTSecret    string
	TokenTTL     time.Duration
	Environment  string
	LogLevel     string
	SentryDSN    string
	OverdueSweep time.Duration
	DB           *sql.DB
}

var AppConfig *Config

// Load reads .env (if present) and the environment into AppConfig.
// The database is opened separately via InitDB.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":8000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SentryDSN:    os.Getenv("SENTRY_DSN"),
		TokenTTL:     time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24)) * time.Minute,
		OverdueSweep: time.Duration(getEnvInt("OVERDUE_SWEEP_MINUTES", 60)) * time.Minute,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	AppConfig = cfg
	return cfg, nil
}

// InitDB opens the Postgres pool and verifies connectivity.
func InitDB() error {
	db, err := sql.Open("postgres", AppConfig.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	AppConfig.DB = db
	return nil
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
