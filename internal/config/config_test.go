package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv sets the environment variable for the duration of the test
		// and automatically restores it afterwards.
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("KAFKA_BROKERS", "localhost:9092")
		t.Setenv("KAFKA_ORDER_TOPIC", "order-events")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("PAYMENT_BASE_URL", "https://payments.example.com")
		t.Setenv("PAYMENT_APIKEY", "payment_secret")
		t.Setenv("RESTAURANT_BASE_URL", "https://restaurants.example.com")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "localhost:9092", cfg.KafkaBrokers)
		assert.Equal(t, "order-events", cfg.KafkaOrderTopic)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "https://payments.example.com", cfg.PaymentBaseURL)
		assert.Equal(t, "payment_secret", cfg.PaymentSecretKey)
		assert.Equal(t, "https://restaurants.example.com", cfg.RestaurantBaseURL)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("APP_PORT", "")
		t.Setenv("KAFKA_ORDER_TOPIC", "")

		cfg := LoadConfig()

		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "order-events", cfg.KafkaOrderTopic)
	})
}
