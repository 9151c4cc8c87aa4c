// Package config loads runtime configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
		LogFormat   string `env:"LOG_FORMAT" envDefault:"json"` // json | console
		MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`

		Storage  Storage  `envPrefix:"STORAGE_"`
		Temporal Temporal `envPrefix:"TEMPORAL_"`
		HTTP     HTTP     `envPrefix:"HTTP_"`
	}

	// Storage selects the object store and how published URLs look.
	Storage struct {
		Driver   string `env:"DRIVER" envDefault:"s3"` // s3 | minio
		Bucket   string `env:"BUCKET"`
		Region   string `env:"REGION" envDefault:"us-east-1"`
		ACL      string `env:"ACL" envDefault:"public-read"`
		URLStyle string `env:"URL_STYLE" envDefault:"virtual-hosted"`
		// S3-compatible endpoint overrides (MinIO etc).
		Endpoint       string `env:"ENDPOINT"`
		ForcePathStyle bool   `env:"FORCE_PATH_STYLE"`
		AccessKey      string `env:"ACCESS_KEY"`
		SecretKey      string `env:"SECRET_KEY"`
		UseSSL         bool   `env:"USE_SSL" envDefault:"true"`
	}

	Temporal struct {
		Address   string `env:"ADDRESS" envDefault:"localhost:7233"`
		Namespace string `env:"NAMESPACE" envDefault:"default"`
		TaskQueue string `env:"TASK_QUEUE" envDefault:"asset-publish"`
	}

	HTTP struct {
		Port         string   `env:"PORT" envDefault:"8080"`
		AllowOrigins []string `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	}
)

// Load reads .env (if any) and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
