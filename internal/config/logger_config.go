package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type logLevel string

const (
	LevelInfo    logLevel = "INFO"
	LevelDebug   logLevel = "DEBUG"
	LevelWarning logLevel = "WARNING"
	LevelError   logLevel = "ERROR"
	LevelFatal   logLevel = "FATAL"
)

type LoggerConfig struct {
	LogLevel   logLevel `mapstructure:"log_level"`
	AppName    string   `mapstructure:"app_name"`
	OutputFile string   `mapstructure:"output_file"`

	// Loki shipping is optional; an empty URL keeps logs local.
	LokiURL      string `mapstructure:"loki_url"`
	LokiUser     string `mapstructure:"loki_user"`
	LokiPassword string `mapstructure:"loki_password"`
}

func (config LoggerConfig) validate() error {

	var missingFields []string

	if config.LogLevel == "" {
		missingFields = append(missingFields, "log_level")
	}

	if config.OutputFile == "" {
		missingFields = append(missingFields, "output_file")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config LoggerConfig) bindEnvironmentVariables() error {
	var errs []error

	bindings := map[string]string{
		"logger.log_level":     "LOG_LEVEL",
		"logger.app_name":      "APP_NAME",
		"logger.loki_url":      "LOKI_URL",
		"logger.loki_user":     "LOKI_USER",
		"logger.loki_password": "LOKI_PASSWORD",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func setLoggerDefaults() {
	viper.SetDefault("logger.log_level", string(LevelInfo))
	viper.SetDefault("logger.app_name", "careers-crawler")
	viper.SetDefault("logger.output_file", "logs/crawler.log")
}
