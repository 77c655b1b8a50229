// Package config loads gptcore settings from a YAML file, GPTCORE_-prefixed
// environment variables and built-in defaults, in increasing order of
// precedence: defaults < file < environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	OpenAI        OpenAIConfig       `mapstructure:"openai"`
	LogLevel      string             `mapstructure:"log_level"`
	Budget        string             `mapstructure:"budget"`
	Chat          ChatSettings       `mapstructure:"chat"`
	Embedding     EmbeddingSettings  `mapstructure:"embedding"`
	Moderation    ModerationSettings `mapstructure:"moderation"`
	Speech        SpeechSettings     `mapstructure:"speech"`
	Transcription AudioSettings      `mapstructure:"transcription"`
	Translation   AudioSettings      `mapstructure:"translation"`
}

// OpenAIConfig holds provider connection settings. APIKey is only ever read
// from the environment.
type OpenAIConfig struct {
	APIKey    string  `mapstructure:"-"`
	BaseURL   string  `mapstructure:"base_url"`
	RateLimit float64 `mapstructure:"rate_limit"`
}

// ChatSettings are the chat builder defaults. Nil pointers leave the
// provider default in place.
type ChatSettings struct {
	Model            string   `mapstructure:"model"`
	User             string   `mapstructure:"user"`
	DeveloperMessage string   `mapstructure:"developer_message"`
	Temperature      *float64 `mapstructure:"temperature"`
	TopP             *float64 `mapstructure:"top_p"`
	FrequencyPenalty *float64 `mapstructure:"frequency_penalty"`
	PresencePenalty  *float64 `mapstructure:"presence_penalty"`
	N                int64    `mapstructure:"n"`
	MaxTokens        int64    `mapstructure:"max_tokens"`
	ReasoningEffort  string   `mapstructure:"reasoning_effort"`
}

// EmbeddingSettings are the embedding builder defaults.
type EmbeddingSettings struct {
	Model      string `mapstructure:"model"`
	User       string `mapstructure:"user"`
	Dimensions int64  `mapstructure:"dimensions"`
}

// ModerationSettings are the moderation builder defaults.
type ModerationSettings struct {
	Model string `mapstructure:"model"`
}

// SpeechSettings are the speech builder defaults.
type SpeechSettings struct {
	Model        string   `mapstructure:"model"`
	Voice        string   `mapstructure:"voice"`
	Instructions string   `mapstructure:"instructions"`
	Format       string   `mapstructure:"format"`
	Speed        *float64 `mapstructure:"speed"`
}

// AudioSettings are the transcription and translation builder defaults.
type AudioSettings struct {
	Model       string   `mapstructure:"model"`
	Language    string   `mapstructure:"language"`
	Prompt      string   `mapstructure:"prompt"`
	Temperature *float64 `mapstructure:"temperature"`
}

var optionalKeys = []string{
	"chat.temperature",
	"chat.top_p",
	"chat.frequency_penalty",
	"chat.presence_penalty",
	"speech.speed",
	"transcription.temperature",
	"translation.temperature",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("budget", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.rate_limit", 0)
	v.SetDefault("chat.model", "")
	v.SetDefault("chat.user", "")
	v.SetDefault("chat.developer_message", "")
	v.SetDefault("chat.n", 1)
	v.SetDefault("chat.max_tokens", 0)
	v.SetDefault("chat.reasoning_effort", "")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.user", "")
	v.SetDefault("embedding.dimensions", 0)
	v.SetDefault("moderation.model", "")
	v.SetDefault("speech.model", "")
	v.SetDefault("speech.voice", "alloy")
	v.SetDefault("speech.instructions", "")
	v.SetDefault("speech.format", "mp3")
	v.SetDefault("transcription.model", "")
	v.SetDefault("transcription.language", "")
	v.SetDefault("transcription.prompt", "")
	v.SetDefault("translation.model", "")
	v.SetDefault("translation.prompt", "")
}

// Load reads configuration from file, environment, and defaults. An empty
// cfgFile searches ./config.yaml and $HOME/.config/gptcore/config.yaml; a
// missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDir())
	}

	v.SetEnvPrefix("GPTCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	for _, key := range optionalKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	// API keys in config files are ignored.
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if _, err := cfg.BudgetCents(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BudgetCents converts the dollar budget to cents. An empty budget yields
// zero, which disables the ceiling.
func (c *Config) BudgetCents() (decimal.Decimal, error) {
	if c.Budget == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c.Budget)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid budget %q: %w", c.Budget, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid budget %q: must not be negative", c.Budget)
	}
	return d.Shift(2), nil
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gptcore")
	}
	return filepath.Join(home, ".config", "gptcore")
}
