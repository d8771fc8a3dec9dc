package config

import (
	"fmt"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type SweeperConfig struct {
	Schedule string `mapstructure:"schedule"`
}

func (config SweeperConfig) validate() error {
	if _, err := cron.ParseStandard(config.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", config.Schedule, err)
	}
	return nil
}

func (config SweeperConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("sweeper.schedule", "SWEEPER_SCHEDULE")
}
