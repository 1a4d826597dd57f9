package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Storage  StorageConfig
	Scanner  ScannerConfig
	Database DatabaseConfig
	NATS     NATSConfig
	Upload   UploadConfig
	Rescan   RescanConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type StorageConfig struct {
	// Root of the upload storage hierarchy (meta, chunks, tmp, final,
	// quarantine). Must live on a single volume so renames are atomic.
	Root string `envconfig:"STORAGE_ROOT" default:"./data"`
}

type ScannerConfig struct {
	BaseURL string        `envconfig:"SCANNER_BASE_URL" default:"http://localhost:3001"`
	Timeout time.Duration `envconfig:"SCANNER_TIMEOUT" default:"10s"`
}

type UploadConfig struct {
	// MissingSampleCap bounds the missing-index sample reported on
	// finalize_missing_chunks so responses stay small on huge uploads.
	MissingSampleCap int `envconfig:"UPLOAD_MISSING_SAMPLE_CAP" default:"20"`
}

type RescanConfig struct {
	Limit int `envconfig:"RESCAN_LIMIT" default:"50"`
}

type NATSConfig struct {
	Enabled       bool   `envconfig:"NATS_ENABLED" default:"false"`
	URL           string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	StreamName    string `envconfig:"NATS_STREAM_NAME" default:"UPLOAD_EVENTS"`
	SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"uploads.events"`
	ClientName    string `envconfig:"NATS_CLIENT_NAME" default:"filegate-api"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
