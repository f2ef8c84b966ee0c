package config

import (
	"os"
	"time"
)

// Config holds all configuration for the marketplace backend.
type Config struct {
	Port string
	Env  string

	MongoURL string
	MongoDB  string

	RedisURL  string
	BasketTTL time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string
	Currency            string

	GeocodeBaseURL string

	// Cook alert delivery: "mailgun", "smtp" or "" (alerts disabled).
	MailProvider  string
	MailgunAPIKey string
	MailgunDomain string
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	AlertsFrom    string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MongoURL: getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "cookwho"),

		RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379"),
		BasketTTL: getDuration("BASKET_TTL", time.Hour*24*7),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		Currency:            getEnv("CURRENCY", "gbp"),

		GeocodeBaseURL: getEnv("GEOCODE_BASE_URL", "https://api.postcodes.io"),

		MailProvider:  os.Getenv("MAIL_PROVIDER"),
		MailgunAPIKey: os.Getenv("MAILGUN_API_KEY"),
		MailgunDomain: os.Getenv("MAILGUN_DOMAIN"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		AlertsFrom:    getEnv("ALERTS_FROM", "CookWho Alerts <alerts@cookwho.example>"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
