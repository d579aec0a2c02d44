package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Reminder scheduling
	CronSecret       string
	ReminderCronSpec string
	ReminderZone     *time.Location

	// Outbound notifications
	ResendAPIKey string
	EmailFrom    string
	AppBaseURL   string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "cardkeeper"),
		DBPassword: getEnv("DB_PASSWORD", "cardkeeper"),
		DBName:     getEnv("DB_NAME", "cardkeeper"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Reminder scheduling
		CronSecret:       os.Getenv("CRON_SECRET"),
		ReminderCronSpec: getEnv("REMINDER_CRON_SPEC", "0 * * * *"),

		// Outbound notifications
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnv("EMAIL_FROM", "Cardkeeper <onboarding@resend.dev>"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	// All deadline math runs in one named civil timezone. An unknown
	// zone is a configuration error, not something to limp past.
	zoneName := getEnv("REMINDER_ZONE", "America/New_York")
	zone, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_ZONE %q: %w", zoneName, err)
	}
	config.ReminderZone = zone

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
