package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port                   int      `mapstructure:"port"`
	Mode                   string   `mapstructure:"mode"`
	AllowedOrigins         []string `mapstructure:"allowed_origins"`
	LoginAttemptsPerMinute float64  `mapstructure:"login_attempts_per_minute"`
}

func (config ServerConfig) validate() error {
	var errs []error

	if config.Port <= 0 || config.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", config.Port))
	}

	switch config.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("invalid mode: %q", config.Mode))
	}

	if config.LoginAttemptsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("login_attempts_per_minute must be greater than zero"))
	}

	return errors.Join(errs...)
}

func (config ServerConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"server.port": "PORT",
		"server.mode": "GIN_MODE",
	})
}
