package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	KafkaBrokers    string
	KafkaOrderTopic string

	RedisAddr string

	PaymentBaseURL   string
	PaymentSecretKey string

	RestaurantBaseURL string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaOrderTopic: os.Getenv("KAFKA_ORDER_TOPIC"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		PaymentBaseURL:   os.Getenv("PAYMENT_BASE_URL"),
		PaymentSecretKey: os.Getenv("PAYMENT_APIKEY"),

		RestaurantBaseURL: os.Getenv("RESTAURANT_BASE_URL"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}
	if cfg.KafkaOrderTopic == "" {
		cfg.KafkaOrderTopic = "order-events"
	}

	return cfg
}
