package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"futurebound/logger"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env       string
	Port      string
	JWTKey    string
	JWTTTL    time.Duration
	SaltRound int

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	CorsOrigins string

	SendgridAPIKey  string
	EmailSender     string
	EmailSenderName string
	AdminEmail      string

	SMSApiURL string
	SMSApiKey string

	OTPTTL time.Duration

	ReconcileSchedule string // cron spec for the nightly progress reconciliation
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logger.Log.Warn("no .env file found, using system environment variables")
	}

	AppConfig = FromEnv()

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		logger.Log.Warn("using default JWT_SECRET_KEY, update it in your environment")
	}
	if AppConfig.DBDriver == "sqlite" && AppConfig.Env == "production" {
		logger.Log.Warn("sqlite database configured in production")
	}
}

// FromEnv builds a Config from the current process environment.
func FromEnv() *Config {
	return &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "futurebound"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		CorsOrigins: getEnv("CORS_ORIGINS", "*"),

		SendgridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@futurebound.tech"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "FUTURE BOUND TECH"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@futurebound.tech"),

		SMSApiURL: getEnv("SMS_API_URL", ""),
		SMSApiKey: getEnv("SMS_API_KEY", ""),

		OTPTTL: getEnvDuration("OTP_TTL", 10*time.Minute),

		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "0 2 * * *"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		logger.Log.Warnw("invalid integer in environment", "key", key, "error", err)
		return defaultValue
	}
	return intValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Log.Warnw("invalid duration in environment", "key", key, "error", err)
		return defaultValue
	}
	return d
}
