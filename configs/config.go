package configs

import (
	"os"
	"strconv"
	"strings"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Email    EmailConfig
	Rates    RatesConfig
	Digest   DigestConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds the optional cache configuration. An empty URL disables caching.
type RedisConfig struct {
	URL string
}

// EmailConfig holds email configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

// RatesConfig holds the currency rate feed configuration
type RatesConfig struct {
	FeedURL      string
	BaseCurrency string
}

// DigestConfig holds the weekly digest configuration
type DigestConfig struct {
	Rule            string // RRULE controlling when digests go out
	Subject         string
	ExtraRecipients []string // always included in addition to opted-in staff
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, err
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, err
	}

	var extraRecipients []string
	if raw := getEnv("DIGEST_EXTRA_RECIPIENTS", ""); raw != "" {
		for _, addr := range strings.Split(raw, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				extraRecipients = append(extraRecipients, addr)
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: port,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ops_portal"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "smtp.example.com"),
			SMTPPort:     smtpPort,
			SMTPUser:     getEnv("SMTP_USER", "user"),
			SMTPPassword: getEnv("SMTP_PASSWORD", "password"),
			SenderEmail:  getEnv("SENDER_EMAIL", "no-reply@ops-portal.local"),
		},
		Rates: RatesConfig{
			FeedURL:      getEnv("RATES_FEED_URL", "https://www.cbr.ru/scripts/XML_daily.asp"),
			BaseCurrency: getEnv("BASE_CURRENCY", "USD"),
		},
		Digest: DigestConfig{
			Rule:            getEnv("DIGEST_RRULE", "FREQ=WEEKLY;BYDAY=MO;BYHOUR=8;BYMINUTE=0"),
			Subject:         getEnv("DIGEST_SUBJECT", "Weekly Operations Digest"),
			ExtraRecipients: extraRecipients,
		},
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
