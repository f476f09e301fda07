package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type DBConfig struct {
	// ConnectionString is the sqlite path or DSN. The default keeps
	// the database under the working directory.
	ConnectionString string `mapstructure:"connection_string"`
}

func (config DBConfig) validate() error {
	if config.ConnectionString == "" {
		return fmt.Errorf("missing required variables: connection_string")
	}
	return nil
}

func (config DBConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("db.connection_string", "DB_CONNECTION_STRING")
}

func setDBDefaults() {
	viper.SetDefault("db.connection_string", "data/crawler.db")
}
