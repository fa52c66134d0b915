// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Ledger struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"ledger" yaml:"ledger"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Matching struct {
		AmountTolerance float64 `mapstructure:"amount_tolerance" yaml:"amount_tolerance"`
		DayWindow       int     `mapstructure:"day_window" yaml:"day_window"`
	} `mapstructure:"matching" yaml:"matching"`

	Tax struct {
		Allowance         float64 `mapstructure:"allowance" yaml:"allowance"`
		TaperThreshold    float64 `mapstructure:"taper_threshold" yaml:"taper_threshold"`
		BasicBandWidth    float64 `mapstructure:"basic_band_width" yaml:"basic_band_width"`
		BasicRate         float64 `mapstructure:"basic_rate" yaml:"basic_rate"`
		HigherBandWidth   float64 `mapstructure:"higher_band_width" yaml:"higher_band_width"`
		HigherRate        float64 `mapstructure:"higher_rate" yaml:"higher_rate"`
		AdditionalRate    float64 `mapstructure:"additional_rate" yaml:"additional_rate"`
		FinanceReliefRate float64 `mapstructure:"finance_relief_rate" yaml:"finance_relief_rate"`
	} `mapstructure:"tax" yaml:"tax"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config file, then LEDGER_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.lettings-ledger")
	v.AddConfigPath(".lettings-ledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail, continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The API key always comes from the unprefixed environment variable.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ledger.file", "ledger.yaml")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("matching.amount_tolerance", 0.10)
	v.SetDefault("matching.day_window", 7)

	// Current scheme figures. These change with the Finance Act, not with
	// the code, which is why they live in configuration.
	v.SetDefault("tax.allowance", 12570)
	v.SetDefault("tax.taper_threshold", 100000)
	v.SetDefault("tax.basic_band_width", 37700)
	v.SetDefault("tax.basic_rate", 0.20)
	v.SetDefault("tax.higher_band_width", 87440)
	v.SetDefault("tax.higher_rate", 0.40)
	v.SetDefault("tax.additional_rate", 0.45)
	v.SetDefault("tax.finance_relief_rate", 0.20)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	if config.Matching.AmountTolerance <= 0 {
		return fmt.Errorf("matching.amount_tolerance must be positive, got: %f", config.Matching.AmountTolerance)
	}
	if config.Matching.DayWindow < 0 {
		return fmt.Errorf("matching.day_window must not be negative, got: %d", config.Matching.DayWindow)
	}

	if config.Tax.Allowance < 0 || config.Tax.TaperThreshold < 0 {
		return fmt.Errorf("tax allowance and taper threshold must not be negative")
	}
	for name, rate := range map[string]float64{
		"tax.basic_rate":          config.Tax.BasicRate,
		"tax.higher_rate":         config.Tax.HigherRate,
		"tax.additional_rate":     config.Tax.AdditionalRate,
		"tax.finance_relief_rate": config.Tax.FinanceReliefRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be between 0.0 and 1.0, got: %f", name, rate)
		}
	}

	return nil
}

// ConfigureLoggingFromConfig builds a logrus logger from the Config.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
