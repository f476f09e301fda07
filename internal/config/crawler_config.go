package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type CrawlerConfig struct {
	UserAgent            string  `mapstructure:"user_agent"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`

	// MaxDepth bounds the discovery traversal from the homepage.
	MaxDepth int `mapstructure:"max_depth"`
	// Concurrency bounds parallel fetches within one company's run.
	Concurrency int `mapstructure:"concurrency"`
	// WorkerSlots bounds how many companies are crawled in parallel.
	WorkerSlots int `mapstructure:"worker_slots"`

	DiscoverySchedule  string `mapstructure:"discovery_schedule"`
	CollectionSchedule string `mapstructure:"collection_schedule"`
	StaleAfterDays     int    `mapstructure:"stale_after_days"`

	// AIKey enables the optional job-likelihood classifier. Leave
	// empty to run on keyword rules alone.
	AIKey                  string  `mapstructure:"ai_key"`
	AiMaxRequestsPerMinute float32 `mapstructure:"ai_max_requests_per_minute"`
	AiMaxRequestsPerDay    float32 `mapstructure:"ai_max_requests_per_day"`
}

func (config CrawlerConfig) validate() error {

	var missingFields []string

	if config.MaxDepth <= 0 {
		missingFields = append(missingFields, "max_depth")
	}

	if config.Concurrency <= 0 {
		missingFields = append(missingFields, "concurrency")
	}

	if config.WorkerSlots <= 0 {
		missingFields = append(missingFields, "worker_slots")
	}

	if config.MaxRequestsPerSecond <= 0 {
		missingFields = append(missingFields, "max_requests_per_second")
	}

	if config.StaleAfterDays <= 0 {
		missingFields = append(missingFields, "stale_after_days")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config CrawlerConfig) bindEnvironmentVariables() error {
	var errs []error
	if err := viper.BindEnv("crawler.ai_key", "AI_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("crawler.user_agent", "USER_AGENT"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func setCrawlerDefaults() {
	viper.SetDefault("crawler.max_depth", 3)
	viper.SetDefault("crawler.concurrency", 4)
	viper.SetDefault("crawler.worker_slots", 4)
	viper.SetDefault("crawler.max_requests_per_second", 3)
	viper.SetDefault("crawler.stale_after_days", 14)
	viper.SetDefault("crawler.discovery_schedule", "0 2 * * *")
	viper.SetDefault("crawler.collection_schedule", "0 4 * * *")
	viper.SetDefault("crawler.ai_max_requests_per_minute", 15)
	viper.SetDefault("crawler.ai_max_requests_per_day", 1500)
}
