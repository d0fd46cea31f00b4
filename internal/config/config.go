// Package config loads process configuration from the environment. A local
// .env file is honored when present; real deployments set variables directly.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	HTTP        HTTPServer
	Store       Store
	Redis       Redis
	Kafka       Kafka
	JWT         JWT       `envPrefix:"JWT_"`
	SMTP        SMTP      `envPrefix:"SMTP_"`
	Assistant   Assistant `envPrefix:"ASSISTANT_"`
	Admin       Admin     `envPrefix:"ADMIN_"`

	// RestockOnCancel controls whether cancelling an order returns its
	// quantities to stock.
	RestockOnCancel bool `env:"RESTOCK_ON_CANCEL" envDefault:"false"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// Store selects the persistence backend: postgres, dynamo or memory.
type Store struct {
	Backend     string `env:"STORE_BACKEND" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`

	DynamoTable    string `env:"DYNAMO_TABLE" envDefault:"quickstore"`
	DynamoRegion   string `env:"DYNAMO_REGION" envDefault:"us-east-1"`
	DynamoEndpoint string `env:"DYNAMO_ENDPOINT"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"order-events"`
	GroupID string   `env:"KAFKA_GROUP_ID" envDefault:"quickstore-notifier"`
}

type JWT struct {
	Secret string        `env:"SECRET,notEmpty"`
	Expiry time.Duration `env:"EXPIRY" envDefault:"24h"`
}

type SMTP struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port string `env:"PORT" envDefault:"1025"`
	From string `env:"FROM" envDefault:"orders@quickstore.example"`
}

type Assistant struct {
	Endpoint string `env:"ENDPOINT"`
	APIKey   string `env:"API_KEY"`
	Model    string `env:"MODEL" envDefault:"gpt-4o-mini"`
}

type Admin struct {
	Mobile   string `env:"MOBILE" envDefault:"9999999999"`
	Email    string `env:"EMAIL" envDefault:"admin@quickstore.example"`
	Password string `env:"PASSWORD" envDefault:"admin123"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
