package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"EDI Decode"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"edi"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
		CORSOrigins    []string      `envconfig:"CORS_ORIGINS"`
		AuthSecret     string        `envconfig:"AUTH_SECRET"`
	}

	Log Logging

	Validation struct {
		OrphanDistance      int     `envconfig:"ORPHAN_DISTANCE" default:"10"`
		DuplicateSimilarity float64 `envconfig:"DUPLICATE_SIMILARITY" default:"0.85"`
	}

	// PayerDirectory is an optional YAML file replacing the built-in payer directory.
	PayerDirectory string `envconfig:"PAYER_DIRECTORY"`
}

type Logging struct {
	Level         string `envconfig:"LOG_LEVEL" default:"info"`
	Format        string `envconfig:"LOG_FORMAT" default:"text"`
	IncludeCaller bool   `envconfig:"LOG_INCLUDE_CALLER" default:"false"`
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
