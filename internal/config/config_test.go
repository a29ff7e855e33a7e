package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databasePathEnv, "")
	t.Setenv(httpAddrEnv, "")

	cfg := Load()
	if cfg.Database.Path != "seoadmin.db" {
		t.Fatalf("database path = %q", cfg.Database.Path)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("http addr = %q", cfg.HTTP.Addr)
	}
	if cfg.OpenAI.Timeout() != 60*time.Second {
		t.Fatalf("timeout = %v", cfg.OpenAI.Timeout())
	}
	if cfg.Publisher.Interval() != time.Minute {
		t.Fatalf("interval = %v", cfg.Publisher.Interval())
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
database:
  path: /tmp/custom.db
openai:
  model: file-model
  timeoutSeconds: 5
publisher:
  intervalSeconds: 30
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(databasePathEnv, "")
	t.Setenv(httpAddrEnv, "")
	t.Setenv(openAIModelEnv, "env-model")

	cfg := Load()
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Fatalf("database path = %q", cfg.Database.Path)
	}
	// Environment overrides beat file values.
	if cfg.OpenAI.Model != "env-model" {
		t.Fatalf("model = %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.Timeout() != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.OpenAI.Timeout())
	}
	if cfg.Publisher.Interval() != 30*time.Second {
		t.Fatalf("interval = %v", cfg.Publisher.Interval())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
	// Untouched values keep their defaults.
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("http addr = %q", cfg.HTTP.Addr)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(databasePathEnv, "")
	cfg := Load()
	if cfg.Database.Path != "seoadmin.db" {
		t.Fatalf("database path = %q", cfg.Database.Path)
	}
}
