package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит все настройки приложения
type Config struct {
	// Server
	Port string
	Host string

	// Database
	DBPath string

	// Telegram
	TelegramBotToken   string
	TelegramWebhookURL string

	// Object storage (Backblaze B2)
	B2AccountID  string
	B2AppKey     string
	B2BucketName string

	// Change relay
	AlertInterval time.Duration
	AlertBatch    int

	// Security
	JWTSecret     string
	JWTExpiration time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Port:               getEnv("PORT", "8080"),
		Host:               getEnv("HOST", "0.0.0.0"),
		DBPath:             getEnv("DB_PATH", "/tmp/hwbot.db"),
		TelegramBotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramWebhookURL: getEnv("TELEGRAM_WEBHOOK_URL", ""),
		B2AccountID:        getEnv("B2_ACCOUNT_ID", ""),
		B2AppKey:           getEnv("B2_APP_KEY", ""),
		B2BucketName:       getEnv("B2_BUCKET_NAME", ""),
		JWTSecret:          getEnv("JWT_SECRET", "hwbot_secret_key"),
		JWTExpiration:      24 * time.Hour,
		AlertBatch:         25,
	}

	// Парсим числовые значения
	if seconds, err := strconv.Atoi(getEnv("ALERT_INTERVAL_SECONDS", "3")); err == nil && seconds > 0 {
		config.AlertInterval = time.Duration(seconds) * time.Second
	} else {
		config.AlertInterval = 3 * time.Second
	}

	if batch, err := strconv.Atoi(getEnv("ALERT_BATCH", "25")); err == nil && batch > 0 {
		config.AlertBatch = batch
	}

	return config, nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
