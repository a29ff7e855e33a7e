package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "SEOADMIN_CONFIG"
	databasePathEnv = "DATABASE_PATH"
	httpAddrEnv     = "HTTP_ADDR"
	openAIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	HTTP      HTTPConfig      `yaml:"http"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Publisher PublisherConfig `yaml:"publisher"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig describes the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// HTTPConfig describes the admin API listener.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// OpenAIConfig defines how to contact the analysis delegate.
type OpenAIConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"apiKey"`
	SystemPrompt   string `yaml:"systemPrompt"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the configured request timeout.
func (c OpenAIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AnalysisConfig tunes the analysis workflow.
type AnalysisConfig struct {
	SnapshotLimit   int `yaml:"snapshotLimit"`
	MaxContentChars int `yaml:"maxContentChars"`
}

// PublisherConfig controls the scheduled-post publisher.
type PublisherConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds"`
}

// Interval resolves how often the publisher scans for due pages.
func (c PublisherConfig) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.HTTP.Addr != "" {
		base.HTTP = override.HTTP
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.SystemPrompt != "" {
		base.OpenAI.SystemPrompt = override.OpenAI.SystemPrompt
	}
	if override.OpenAI.TimeoutSeconds > 0 {
		base.OpenAI.TimeoutSeconds = override.OpenAI.TimeoutSeconds
	}

	if override.Analysis.SnapshotLimit > 0 {
		base.Analysis.SnapshotLimit = override.Analysis.SnapshotLimit
	}
	if override.Analysis.MaxContentChars > 0 {
		base.Analysis.MaxContentChars = override.Analysis.MaxContentChars
	}

	if override.Publisher.IntervalSeconds > 0 {
		base.Publisher.IntervalSeconds = override.Publisher.IntervalSeconds
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "seoadmin.db"},
		HTTP:     HTTPConfig{Addr: ":8080"},
		OpenAI: OpenAIConfig{
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o-mini",
			APIKey:         "",
			SystemPrompt:   "You are an SEO auditor for a personal blog. Be specific and concise.",
			TimeoutSeconds: 60,
		},
		Analysis: AnalysisConfig{
			SnapshotLimit:   2000,
			MaxContentChars: 24000,
		},
		Publisher: PublisherConfig{IntervalSeconds: 60},
		Logging:   LoggingConfig{Level: "info"},
	}
}
