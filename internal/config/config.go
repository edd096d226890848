// Package config loads the settings shared by the CLI and the dev server.
// Values come from an rml.env file in the search path, overridden by
// environment variables of the same name.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment  string        `mapstructure:"RML_ENVIRONMENT"`
	DevAddress   string        `mapstructure:"RML_DEV_ADDRESS"`
	PollInterval time.Duration `mapstructure:"RML_DEV_POLL_INTERVAL"`
	OutDir       string        `mapstructure:"RML_OUT_DIR"`
}

// LoadConfig reads rml.env from path plus the process environment. A missing
// file is not an error; the defaults below apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("rml")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// An empty out dir means artifacts land next to their sources.
	v.SetDefault("RML_ENVIRONMENT", "development")
	v.SetDefault("RML_DEV_ADDRESS", "localhost:8080")
	v.SetDefault("RML_DEV_POLL_INTERVAL", 300*time.Millisecond)
	v.SetDefault("RML_OUT_DIR", "")

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
