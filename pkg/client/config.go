package client

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from CLINIC_API_URL and CLINIC_API_TIMEOUT.
type Config struct {
	URL     string        `envconfig:"URL" default:"http://localhost:8080/api/v1"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`
}

func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("CLINIC_API", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read client config: %w", err)
	}
	return cfg, nil
}
