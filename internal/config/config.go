package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	// StorageMemory keeps all records in process memory.
	StorageMemory = "memory"
	// StorageMySQL persists records through GORM.
	StorageMySQL = "mysql"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string `env:"SERVER_PORT" envDefault:"8080"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	MySQLDSN      string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/seva?charset=utf8mb4&parseTime=True&loc=Local"`
	ResetDB       bool   `env:"RESET_DB" envDefault:"false"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret   string `env:"JWT_SECRET" envDefault:"change-me"`
	SwaggerHost string `env:"SWAGGER_HOST"`

	// PublicOrigin overrides the request origin used in referral links.
	PublicOrigin   string `env:"PUBLIC_ORIGIN"`
	ReferralReward int    `env:"REFERRAL_REWARD" envDefault:"50"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	KafkaBrokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOrderTopic string   `env:"KAFKA_ORDER_TOPIC" envDefault:"orders.events"`
}

// Load builds Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.StorageDriver != StorageMemory && cfg.StorageDriver != StorageMySQL {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.ReferralReward < 0 {
		return nil, fmt.Errorf("REFERRAL_REWARD must not be negative")
	}
	return &cfg, nil
}
