package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr         string
	DBUser           string
	DBPassword       string
	DBHost           string
	DBPort           string
	DBName           string
	JWTSecret        string
	RabbitMQURL      string
	OrderExchange    string
	OrderQueue       string
	DeadLetterQueue  string
	DelayExchange    string
	MaxPriority      int
	ProductCacheSize int
}

func LoadConfig() *Config {
	return &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DBUser:           getEnv("DB_USER", "root"),
		DBPassword:       getEnvFromFile("DB_PASSWORD_FILE", "DB_PASSWORD", "ecommerce"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBName:           getEnv("DB_NAME", "ecommerce"),
		JWTSecret:        getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", "dev-only-secret"),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		OrderExchange:    getEnv("ORDER_EXCHANGE", "orders_exchange"),
		OrderQueue:       getEnv("ORDER_QUEUE", "orders_queue"),
		DeadLetterQueue:  getEnv("DEAD_LETTER_QUEUE", "dead_letter_queue"),
		DelayExchange:    getEnv("DELAY_EXCHANGE", "delay_exchange"),
		MaxPriority:      10,
		ProductCacheSize: getEnvInt("PRODUCT_CACHE_SIZE", 1024),
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

// getEnvFromFile supports docker-secret style *_FILE indirection.
func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}
