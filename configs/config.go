package configs

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisHost string
	RedisPort string

	KafkaBrokers string
	KafkaTopic   string

	JWTSecret string

	PollDurationHours int
	StoryTTLHours     int

	RateLimitPerMin int64
}

func LoadConfig() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", ":8087"),
		DBHost:  getEnv("DB_HOST", "localhost"),
		DBPort:  getEnv("DB_PORT", "5432"),
		DBUser:  getEnv("DB_USER", "postgres"),
		DBPass:  getEnv("DB_PASS", "postgres"),
		DBName:  getEnv("DB_NAME", "engagement_db"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		KafkaBrokers: getEnv("KAFKA_BOOTSTRAP_SERVERS", "kafka:9092"),
		KafkaTopic:   getEnv("KAFKA_TOPIC_NOTIFICATIONS", "notifications.new"),

		JWTSecret: getEnv("JWT_SECRET", "replace-this-with-a-strong-secret"),

		PollDurationHours: getEnvInt("POLL_DURATION_HOURS", 24),
		StoryTTLHours:     getEnvInt("STORY_TTL_HOURS", 24),

		RateLimitPerMin: int64(getEnvInt("RATE_LIMIT_PER_MIN", 120)),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
