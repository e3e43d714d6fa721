package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPass             string
	DBName             string
	ServerPort         string
	RedisURL           string
	Env                string
	RedisTTL           time.Duration
	FrontendURLs       []string
	CORSAllowedOrigins []string
	CORSAllowAll       bool
	SessionTTL         time.Duration
	OTPTTL             time.Duration
	SMTPHost           string
	SMTPPort           string
	SMTPUser           string
	SMTPPassword       string
	SMTPFrom           string
	SeedDemo           bool
}

func LoadConfig() Config {
	return Config{
		DBHost:             getEnv("DB_HOST", "postgres"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPass:             getEnv("DB_PASSWORD", "password"),
		DBName:             getEnv("DB_NAME", "feedbackboard"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		RedisURL:           getEnv("REDIS_URL", "redis:6379"),
		Env:                getEnv("ENV", "dev"),
		RedisTTL:           getEnvAsDuration("REDIS_TTL", 5*time.Minute),
		FrontendURLs:       getEnvAsList("FRONTEND_URL", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		CORSAllowAll:       getEnvAsBool("CORS_ALLOW_ALL", false),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
		OTPTTL:             getEnvAsDuration("OTP_TTL", 10*time.Minute),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		SeedDemo:           getEnvAsBool("SEED_DEMO", false),
	}
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// WidgetOrigins is the allow-list for the public submission endpoint. The
// app's own frontend is always allowed so the hosted board page can post.
func (c *Config) WidgetOrigins() []string {
	origins := make([]string, 0, len(c.CORSAllowedOrigins)+len(c.FrontendURLs))
	origins = append(origins, c.CORSAllowedOrigins...)
	origins = append(origins, c.FrontendURLs...)
	return origins
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}
