package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/notekit/server/services"
)

// Config holds everything the server reads from the environment. Values
// come from an optional .env file plus real environment variables, with
// env taking precedence.
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	FrontendURL string
	SMTP        services.SMTPConfig
	Google      services.GoogleConfig
}

// LoadConfig reads configuration via viper.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "3001")
	v.SetDefault("DB_PATH", "./notekit.db")
	v.SetDefault("JWT_SECRET", "replace_this_with_a_real_secret")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// A missing .env is fine; everything can come from the environment.
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read .env file: %w", err)
			}
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:        v.GetString("PORT"),
		DBPath:      v.GetString("DB_PATH"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		FrontendURL: v.GetString("FRONTEND_URL"),
		SMTP: services.SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetString("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Google: services.GoogleConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
			FrontendURL:  v.GetString("FRONTEND_URL"),
		},
	}
	return cfg, nil
}
