package ai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Supported chat-completion platforms.
const (
	PlatformOpenAI   = "openai"
	PlatformAzure    = "azure"
	PlatformDeepSeek = "deepseek"
)

// Config holds generative platform settings, loaded from a YAML file.
type Config struct {
	Platform       string `yaml:"platform"`
	Model          string `yaml:"model"`
	Endpoint       string `yaml:"endpoint"`
	APIKey         string `yaml:"api_key"`
	APIVersion     string `yaml:"api_version"`
	ProxyURL       string `yaml:"proxy_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DefaultConfig returns a usable OpenAI configuration; the API key
// still has to come from a credentials file or the config itself.
func DefaultConfig() Config {
	cfg := Config{Platform: PlatformOpenAI}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a YAML config file and fills in platform defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Platform == "" {
		c.Platform = PlatformOpenAI
	}
	if c.Model == "" {
		switch c.Platform {
		case PlatformOpenAI:
			c.Model = "gpt-4o-mini"
		case PlatformAzure:
			c.Model = "gpt-4o-mini"
		case PlatformDeepSeek:
			c.Model = "deepseek-chat"
		}
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 60
	}
}
