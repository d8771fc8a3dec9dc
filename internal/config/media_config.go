package config

import (
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type MediaConfig struct {
	CloudinaryURL      string        `mapstructure:"cloudinary_url"`
	ResumeFetchTimeout time.Duration `mapstructure:"resume_fetch_timeout"`
}

func (config MediaConfig) validate() error {
	if config.CloudinaryURL == "" {
		return fmt.Errorf("missing variable: cloudinary_url")
	}
	if config.ResumeFetchTimeout <= 0 {
		return fmt.Errorf("resume_fetch_timeout must be positive")
	}
	return nil
}

func (config MediaConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("media.cloudinary_url", "CLOUDINARY_URL")
}
