package commands

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Dataset        string         `mapstructure:"dataset"`
	Workers        int            `mapstructure:"workers"`
	Trials         int            `mapstructure:"trials"`
	Seed           int64          `mapstructure:"seed"`
	Output         string         `mapstructure:"output"`
	Format         string         `mapstructure:"format"`
	RunLog         string         `mapstructure:"run_log"`
	EventLog       string         `mapstructure:"event_log"`
	CacheDir       string         `mapstructure:"cache_dir"`
	CacheTTLHours  int            `mapstructure:"cache_ttl_hours"`
	RateLimitRPS   float64        `mapstructure:"rate_limit_rps"`
	RateLimitBurst int            `mapstructure:"rate_limit_burst"`
	Moderation     bool           `mapstructure:"moderation"`
	Weak           RoleConfig     `mapstructure:"weak"`
	Strong         RoleConfig     `mapstructure:"strong"`
	Single         RoleConfig     `mapstructure:"single"`
	Provider       ProviderConfig `mapstructure:"provider"`
}

// RoleConfig selects the model for one pipeline role.
type RoleConfig struct {
	Provider     string `mapstructure:"provider"`
	Model        string `mapstructure:"model"`
	MockResponse string `mapstructure:"mock_response"`
}

// ProviderConfig carries per-provider transport tuning.
type ProviderConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffMillis  int    `mapstructure:"backoff_millis"`
	OllamaBaseURL  string `mapstructure:"ollama_base_url"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".decompbench")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
