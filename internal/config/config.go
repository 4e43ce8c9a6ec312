package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Dilisense  DilisenseConfig  `yaml:"dilisense" mapstructure:"dilisense"`
	DART       DARTConfig       `yaml:"dart" mapstructure:"dart"`
	Screening  ScreeningConfig  `yaml:"screening" mapstructure:"screening"`
	Scoring    ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings for the analysis provider.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PerplexityConfig holds Perplexity API settings for the search provider.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// DilisenseConfig holds dilisense API settings for sanctions/PEP checks.
type DilisenseConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// DARTConfig holds DART API settings for Korean corporate registry lookups.
type DARTConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ScreeningConfig configures the provider fan-out.
type ScreeningConfig struct {
	// Per-branch timeouts. A branch that misses its deadline is dropped
	// from the report; the others proceed.
	AITimeoutSecs         int `yaml:"ai_timeout_secs" mapstructure:"ai_timeout_secs"`
	SearchTimeoutSecs     int `yaml:"search_timeout_secs" mapstructure:"search_timeout_secs"`
	ComplianceTimeoutSecs int `yaml:"compliance_timeout_secs" mapstructure:"compliance_timeout_secs"`
	RegistryTimeoutSecs   int `yaml:"registry_timeout_secs" mapstructure:"registry_timeout_secs"`

	// GlobalTimeoutSecs bounds the whole screening.
	GlobalTimeoutSecs int `yaml:"global_timeout_secs" mapstructure:"global_timeout_secs"`

	// CacheTTLHours controls how long completed reports satisfy repeat
	// screenings of the same subject. 0 disables the cache.
	CacheTTLHours int `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`

	// MaxConcurrent bounds parallel screenings in batch mode.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ScoringConfig points at the optional scoring weights file.
type ScoringConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures report export.
type ExportConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RetryConfig configures provider call retries.
type RetryConfig struct {
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int     `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	Multiplier       float64 `yaml:"multiplier" mapstructure:"multiplier"`
	JitterFraction   float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
}

// CircuitConfig configures per-provider circuit breakers.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// MonitoringConfig configures health checks and alerting.
type MonitoringConfig struct {
	CheckIntervalSecs             int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	LookbackWindowHours           int     `yaml:"lookback_window_hours" mapstructure:"lookback_window_hours"`
	FailureRateThreshold          float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	ProviderAvailabilityThreshold float64 `yaml:"provider_availability_threshold" mapstructure:"provider_availability_threshold"`
	WebhookURL                    string  `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DILIGENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "diligence.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("dilisense.base_url", "https://api.dilisense.com/v1")
	v.SetDefault("dart.base_url", "https://opendart.fss.or.kr/api")
	v.SetDefault("screening.ai_timeout_secs", 120)
	v.SetDefault("screening.search_timeout_secs", 60)
	v.SetDefault("screening.compliance_timeout_secs", 30)
	v.SetDefault("screening.registry_timeout_secs", 30)
	v.SetDefault("screening.global_timeout_secs", 180)
	v.SetDefault("screening.cache_ttl_hours", 24)
	v.SetDefault("screening.max_concurrent", 5)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", "json")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 30000)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("retry.jitter_fraction", 0.25)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.lookback_window_hours", 24)
	v.SetDefault("monitoring.failure_rate_threshold", 0.5)
	v.SetDefault("monitoring.provider_availability_threshold", 0.5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
