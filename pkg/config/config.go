package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig                 `yaml:"app"`
	Server    ServerConfig              `yaml:"server"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Search    SearchConfig              `yaml:"search"`
	Memory    MemoryConfig              `yaml:"memory"`
	Policy    PolicyConfig              `yaml:"policy"`
}

type AppConfig struct {
	Name       string `yaml:"name"`
	PromptsDir string `yaml:"prompts_dir"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type SearchConfig struct {
	APIKey     string `yaml:"api_key"`
	NumResults int    `yaml:"num_results"`
	Enrich     bool   `yaml:"enrich"`
}

type MemoryConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

type PolicyConfig struct {
	MaxQueryLen  int      `yaml:"max_query_len"`
	DenyPatterns []string `yaml:"deny_patterns"`
}

func LoadConfig(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to decode config file: %v", err)
	}

	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "webo"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Search.NumResults <= 0 {
		c.Search.NumResults = 5
	}
	if c.Memory.Path == "" {
		c.Memory.Path = "webo.db"
	}

	// Secrets can come from the environment instead of the file.
	if c.Search.APIKey == "" {
		c.Search.APIKey = os.Getenv("EXA_API_KEY")
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if p, ok := c.Providers["openai"]; ok && p.APIKey == "" {
			p.APIKey = key
			c.Providers["openai"] = p
		}
	}
}

// GetDefaultProvider returns the first enabled provider.
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}
