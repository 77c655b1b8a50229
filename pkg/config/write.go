package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type starterFile struct {
	LogLevel string `yaml:"log_level"`
	Budget   string `yaml:"budget"`
	OpenAI   struct {
		BaseURL   string  `yaml:"base_url"`
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"openai"`
	Chat struct {
		Model            string `yaml:"model"`
		User             string `yaml:"user"`
		DeveloperMessage string `yaml:"developer_message"`
		N                int64  `yaml:"n"`
		MaxTokens        int64  `yaml:"max_tokens"`
		ReasoningEffort  string `yaml:"reasoning_effort"`
	} `yaml:"chat"`
	Embedding struct {
		Model      string `yaml:"model"`
		Dimensions int64  `yaml:"dimensions"`
	} `yaml:"embedding"`
	Moderation struct {
		Model string `yaml:"model"`
	} `yaml:"moderation"`
	Speech struct {
		Model  string `yaml:"model"`
		Voice  string `yaml:"voice"`
		Format string `yaml:"format"`
	} `yaml:"speech"`
	Transcription struct {
		Model    string `yaml:"model"`
		Language string `yaml:"language"`
	} `yaml:"transcription"`
	Translation struct {
		Model string `yaml:"model"`
	} `yaml:"translation"`
}

// WriteDefault writes a starter config file with the given default model
// names. It refuses to overwrite an existing file.
func WriteDefault(path string, models Defaults) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	var f starterFile
	f.LogLevel = "info"
	f.Chat.Model = models.Chat
	f.Chat.N = 1
	f.Chat.ReasoningEffort = "low"
	f.Embedding.Model = models.Embedding
	f.Moderation.Model = models.Moderation
	f.Speech.Model = models.Speech
	f.Speech.Voice = "alloy"
	f.Speech.Format = "mp3"
	f.Transcription.Model = models.Transcription
	f.Translation.Model = models.Translation

	var buf bytes.Buffer
	buf.WriteString("# gptcore configuration. OPENAI_API_KEY is read from the environment only.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}

// Defaults names the model each family falls back to.
type Defaults struct {
	Chat          string
	Embedding     string
	Moderation    string
	Speech        string
	Transcription string
	Translation   string
}
