package config

import (
	"fmt"
	"github.com/spf13/viper"
)

// NotifierConfig is optional: an empty token disables telegram notifications.
type NotifierConfig struct {
	TelegramToken string `mapstructure:"telegram_token"`
	ChatID        int64  `mapstructure:"chat_id"`
}

func (config NotifierConfig) Enabled() bool {
	return config.TelegramToken != ""
}

func (config NotifierConfig) validate() error {
	if config.Enabled() && config.ChatID == 0 {
		return fmt.Errorf("missing variable: chat_id")
	}
	return nil
}

func (config NotifierConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"notifier.telegram_token": "TG_TOKEN",
		"notifier.chat_id":        "TG_CHAT_ID",
	})
}
