package config

import (
	"errors"
	"os"
)

// Config holds all process configuration, read from the environment.
type Config struct {
	RedisAddr     string
	RedisPassword string
	// MongoURI is optional; when empty the attempt log is disabled.
	MongoURI      string
	QuestionsDir  string
	TelegramToken string
	VKToken       string
	HTTPPort      string
	AdminUsername string
	AdminPassword string
	JWTSecret     string
}

// Load reads configuration from environment variables. A missing required
// value is an error; the caller treats it as startup-fatal.
func Load() (*Config, error) {
	cfg := &Config{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		MongoURI:      os.Getenv("MONGO_URI"),
		QuestionsDir:  os.Getenv("QUIZ_QUESTIONS_DIR"),
		TelegramToken: os.Getenv("TG_BOT_TOKEN"),
		VKToken:       os.Getenv("VK_BOT_TOKEN"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	if cfg.QuestionsDir == "" {
		return nil, errors.New("QUIZ_QUESTIONS_DIR environment variable is required")
	}
	if cfg.TelegramToken == "" && cfg.VKToken == "" {
		return nil, errors.New("at least one of TG_BOT_TOKEN or VK_BOT_TOKEN is required")
	}
	if cfg.AdminPassword == "" {
		return nil, errors.New("ADMIN_PASSWORD environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
