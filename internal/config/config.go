package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Service *svcConfig
	Poll    *pollConfig
}

type svcConfig struct {
	BaseURL          string `envconfig:"VERDICT_BASE_URL" default:"http://localhost:3443"`
	DevServerAddress string `envconfig:"VERDICT_DEVSERVER_ADDRESS" default:":3443"`
	LogLevel         string `envconfig:"VERDICT_LOG_LEVEL" default:"info"`
}

type pollConfig struct {
	// GraceDelay is how long to wait before the first status probe,
	// tolerating read-after-write lag in the backend store.
	GraceDelay time.Duration `envconfig:"VERDICT_POLL_GRACE_DELAY" default:"3s"`
	// Interval is the fixed delay between status probes.
	Interval time.Duration `envconfig:"VERDICT_POLL_INTERVAL" default:"5s"`
	// MaxAttempts bounds polling against a permanently missing job.
	MaxAttempts int `envconfig:"VERDICT_POLL_MAX_ATTEMPTS" default:"720"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
