package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string

	JWTSecret  string
	SessionTTL time.Duration

	// OTP TTLs are split on purpose: account flows (signup, password reset,
	// email/password change) use OTPTTL while dashboard profile flows use
	// the longer OTPDashboardTTL.
	OTPTTL          time.Duration
	OTPDashboardTTL time.Duration

	SuperAdminEmail       string
	SuperAdminPassword    string
	SuperAdminSecurityKey string

	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	SenderName string

	Environment string
	LogLevel    string
	SwaggerHost string
}

// Load builds Config from environment with sensible defaults. A local .env
// file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/estatedesk?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),

		JWTSecret:  getEnv("JWT_SECRET", "change-me"),
		SessionTTL: getEnvDuration("SESSION_TTL", 7*24*time.Hour),

		OTPTTL:          getEnvDuration("OTP_TTL", 5*time.Minute),
		OTPDashboardTTL: getEnvDuration("OTP_DASHBOARD_TTL", 10*time.Minute),

		SuperAdminEmail:       os.Getenv("SUPER_ADMIN_EMAIL"),
		SuperAdminPassword:    os.Getenv("SUPER_ADMIN_PASSWORD"),
		SuperAdminSecurityKey: os.Getenv("SUPER_ADMIN_SECURITY_KEY"),

		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPPort:   getEnv("SMTP_PORT", "465"),
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASSWORD"),
		SenderName: getEnv("MAIL_SENDER_NAME", "EstateDesk"),

		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
