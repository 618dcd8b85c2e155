package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	ActionKit ActionKitConfig `yaml:"actionkit" mapstructure:"actionkit"`
	VAN       VANConfig       `yaml:"van" mapstructure:"van"`
	Ticker    TickerConfig    `yaml:"ticker" mapstructure:"ticker"`
	Sync      SyncConfig      `yaml:"sync" mapstructure:"sync"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ActionKitConfig holds reporting-API credentials and the signup page.
type ActionKitConfig struct {
	Domain   string `yaml:"domain" mapstructure:"domain" validate:"required"`
	Username string `yaml:"username" mapstructure:"username" validate:"required"`
	Password string `yaml:"password" mapstructure:"password" validate:"required"`
	PageID   int    `yaml:"page_id" mapstructure:"page_id" validate:"gt=0"`
}

// VANConfig holds VAN API credentials and client limits.
type VANConfig struct {
	APIKey            string  `yaml:"api_key" mapstructure:"api_key" validate:"required"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// TickerConfig holds the telemetry webhook. An empty URL disables
// reporting.
type TickerConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
	ScriptName string `yaml:"script_name" mapstructure:"script_name"`
}

// SyncConfig configures the extraction window.
type SyncConfig struct {
	LookbackDays int `yaml:"lookback_days" mapstructure:"lookback_days" validate:"gt=0"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("SIGNUPSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credentials default to empty so viper knows the keys and
	// environment-only values still unmarshal.
	v.SetDefault("actionkit.domain", "")
	v.SetDefault("actionkit.username", "")
	v.SetDefault("actionkit.password", "")
	v.SetDefault("actionkit.page_id", 346)
	v.SetDefault("van.api_key", "")
	v.SetDefault("van.base_url", "https://api.securevan.com/v4")
	v.SetDefault("van.timeout_secs", 30)
	v.SetDefault("van.requests_per_second", 0)
	v.SetDefault("ticker.webhook_url", "")
	v.SetDefault("ticker.script_name", "signup-sync")
	v.SetDefault("sync.lookback_days", 1)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks that everything a sync run needs is present. Commands
// that talk to the APIs call it; Load does not, so help output works
// without an environment.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return eris.Wrap(err, "config: validate")
	}
	return nil
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
