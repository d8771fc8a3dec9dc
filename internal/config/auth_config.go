package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	CookieSecure  bool          `mapstructure:"cookie_secure"`
	AdminEmail    string        `mapstructure:"admin_email"`
	AdminPassword string        `mapstructure:"admin_password"`
}

func (config AuthConfig) validate() error {
	var errs []error

	if config.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("missing variable: jwt_secret"))
	}

	if config.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token_ttl must be positive"))
	}

	if (config.AdminEmail == "") != (config.AdminPassword == "") {
		errs = append(errs, fmt.Errorf("admin_email and admin_password must be set together"))
	}

	return errors.Join(errs...)
}

func (config AuthConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"auth.jwt_secret":     "JWT_SECRET",
		"auth.token_ttl":      "TOKEN_TTL",
		"auth.admin_email":    "ADMIN_EMAIL",
		"auth.admin_password": "ADMIN_PASSWORD",
	})
}
