// Package config loads ledgerbook settings from an optional app.env file and
// the environment.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// Values come from app.env in the config directory, overridden by
// LEDGER_-prefixed environment variables, overridden by command line flags.
type Config struct {
	DBPath         string `mapstructure:"DB_PATH"`
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	WebAddress     string `mapstructure:"WEB_ADDRESS"`
	DefaultVATRate string `mapstructure:"DEFAULT_VAT_RATE"`
	Environment    string `mapstructure:"GO_ENV"`
	LogFile        string `mapstructure:"LOG_FILE"`
	BlobServiceURL string `mapstructure:"BLOB_SERVICE_URL"`
	BlobContainer  string `mapstructure:"BLOB_CONTAINER"`
}

var defaults = map[string]any{
	"DB_PATH":          "accounting.db",
	"SERVER_ADDRESS":   "127.0.0.1:8888",
	"WEB_ADDRESS":      "localhost:8833",
	"DEFAULT_VAT_RATE": "19",
	"GO_ENV":           "production",
	"LOG_FILE":         "",
	"BLOB_SERVICE_URL": "",
	"BLOB_CONTAINER":   "ledger-backups",
}

// Load reads configuration from path/app.env (if present) and the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (Config, error) {
	var c Config

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// Development reports whether GO_ENV is "development".
func (c Config) Development() bool {
	return c.Environment == "development"
}
