package config

import (
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Media    MediaConfig    `mapstructure:"media"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Sweeper  SweeperConfig  `mapstructure:"sweeper"`
}

var configFile = "./configs/config.yaml"

type section interface {
	validate() error
	bindEnvironmentVariables(v *viper.Viper) error
}

func Get() *Config {

	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		configFile = value
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	v := viper.New()
	v.SetConfigFile(file)
	v.AutomaticEnv()

	setDefaults(v)

	if err := bindEnvironmentVariables(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	config := Config{}
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.login_attempts_per_minute", 10)
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("media.resume_fetch_timeout", "10s")
	v.SetDefault("sweeper.schedule", "0 3 * * *")
}

func (config *Config) sections() map[string]section {
	return map[string]section{
		"ServerConfig":   &config.Server,
		"LoggerConfig":   &config.Logger,
		"DBConfig":       &config.DB,
		"AuthConfig":     &config.Auth,
		"MediaConfig":    &config.Media,
		"NotifierConfig": &config.Notifier,
		"SweeperConfig":  &config.Sweeper,
	}
}

func bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error

	for name, s := range (&Config{}).sections() {
		if err := s.bindEnvironmentVariables(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config *Config) validate() error {
	var errs []error

	for name, s := range config.sections() {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
