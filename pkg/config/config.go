package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                      string
	Env                       string
	FirebaseCredentialsPath   string
	PostgresConnStr           string
	RedisAddr                 string
	RedisPassword             string
	JWTSecret                 string
	NotificationRetentionDays int
}

func Load() *Config {
	return &Config{
		Port:                      getEnv("PORT", "8080"),
		Env:                       getEnv("ENV", "development"),
		FirebaseCredentialsPath:   getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		PostgresConnStr:           getEnv("POSTGRES_CONN_STR", ""),
		RedisAddr:                 getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:             getEnv("REDIS_PASSWORD", ""),
		JWTSecret:                 getEnv("JWT_SECRET", "supersecretjwtkey"),
		NotificationRetentionDays: getEnvInt("NOTIFICATION_RETENTION_DAYS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
