package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort       string   `env:"HTTP_PORT" envDefault:"8000"`
	StorageBackend string   `env:"STORAGE_BACKEND" envDefault:"postgres"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	DBMigrate      bool     `env:"DB_MIGRATE" envDefault:"true"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"30"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LoginRateLimit         int `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginRateWindowMinutes int `env:"LOGIN_RATE_WINDOW_MINUTES" envDefault:"10"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"finance.expenses"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa combinaciones que env no puede expresar con tags.
func (c *Config) Validate() error {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	switch c.StorageBackend {
	case StorageBackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for storage backend %q", c.StorageBackend)
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	return nil
}
