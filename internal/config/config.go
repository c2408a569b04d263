package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Reconcile"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"reconcile"`
	}

	Auth struct {
		Secret      string        `envconfig:"AUTH_SECRET" default:"dev-secret"`
		OperatorKey string        `envconfig:"OPERATOR_KEY" default:"dev-operator"`
		TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
	}

	Reconcile struct {
		// BestMatch scores every candidate payment and picks the highest
		// instead of the first one in ledger order.
		BestMatch bool `envconfig:"RECONCILE_BEST_MATCH" default:"false"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
