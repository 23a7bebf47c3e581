package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Identity provider (Firebase). Either a credentials file path or the
	// env triple; the triple wins when both are set.
	FirebaseCredentialsFile string
	FirebaseProjectID       string
	FirebaseClientEmail     string
	FirebasePrivateKey      string
	VerifyTimeout           time.Duration

	// Server
	Port        string
	CORSOrigins string

	// Persisted error-log retention
	LogRetention time.Duration
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "marketplace_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseClientEmail:     getEnv("FIREBASE_CLIENT_EMAIL", ""),
		FirebasePrivateKey:      unescapeKey(getEnv("FIREBASE_PRIVATE_KEY", "")),
		VerifyTimeout:           parseDuration(getEnv("FIREBASE_VERIFY_TIMEOUT", "10s")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// HasServiceAccount reports whether the env triple is complete.
func (c *Config) HasServiceAccount() bool {
	return c.FirebaseProjectID != "" && c.FirebaseClientEmail != "" && c.FirebasePrivateKey != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// unescapeKey restores real newlines in a PEM key passed through a single
// env line (dotenv-style `\n` escapes).
func unescapeKey(key string) string {
	if strings.Contains(key, `\n`) {
		return strings.ReplaceAll(key, `\n`, "\n")
	}
	return key
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
