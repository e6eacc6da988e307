package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит все настройки приложения Storefront Service
// Включает конфигурацию для HTTP сервера, PostgreSQL, Redis, Kafka, MongoDB и JWT
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Worker   WorkerConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host     string // Адрес хоста (по умолчанию 0.0.0.0)
	Port     string // Порт сервера (по умолчанию 8080)
	LogLevel string // Уровень логирования (debug/info/warn/error)
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Используется для хранения каталога, корзин, заказов и избранного
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

// RedisConfig - настройки подключения к Redis
// Используется для кеширования категорий и хранения refresh токенов
type RedisConfig struct {
	Host     string
	Port     string
	Password string // Пароль Redis (опционально)
	DB       int    // Номер БД Redis (0-15)
}

// KafkaConfig - настройки Kafka для отправки событий
// События отправляются при создании заказа и изменении цены товара
type KafkaConfig struct {
	Brokers     []string // Список брокеров Kafka (формат: host:port)
	OrderTopic  string   // Топик для событий ORDER_CREATED
	EventsTopic string   // Топик для событий PRODUCT_UPDATED, REVIEW_CREATED
}

// MongoConfig - настройки подключения к MongoDB
// Используется для хранения отзывов о товарах
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// JWTConfig - настройки для выпуска и проверки JWT токенов
type JWTConfig struct {
	Secret          string        // Секретный ключ для подписи токенов
	AccessDuration  time.Duration // Время жизни access токена
	RefreshDuration time.Duration // Время жизни refresh токена
}

// WorkerConfig - настройки фонового обслуживания
type WorkerConfig struct {
	CartSweepSchedule string        // Cron-выражение для очистки брошенных корзин
	CartTTL           time.Duration // Возраст корзины, после которого она считается брошенной
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	accessDuration, err := time.ParseDuration(getEnv("JWT_ACCESS_DURATION", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_DURATION value: %w", err)
	}

	refreshDuration, err := time.ParseDuration(getEnv("JWT_REFRESH_DURATION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_DURATION value: %w", err)
	}

	cartTTL, err := time.ParseDuration(getEnv("CART_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CART_TTL value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			Port:     getEnv("SERVER_PORT", "8080"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:     []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			OrderTopic:  getEnv("KAFKA_ORDER_TOPIC", "order_events"),
			EventsTopic: getEnv("KAFKA_EVENTS_TOPIC", "product_events"),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DB", "storefront"),
			Collection: getEnv("MONGO_REVIEWS_COLLECTION", "reviews"),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
			AccessDuration:  accessDuration,
			RefreshDuration: refreshDuration,
		},
		Worker: WorkerConfig{
			CartSweepSchedule: getEnv("CART_SWEEP_SCHEDULE", "@hourly"),
			CartTTL:           cartTTL,
		},
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL возвращает строку подключения к PostgreSQL в формате URL для pgx
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port для HTTP сервера
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
