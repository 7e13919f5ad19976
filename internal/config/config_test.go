package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Completion.BaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("completion base URL = %q", cfg.Completion.BaseURL)
	}
	if cfg.Completion.Model != "llama-3.3-70b-versatile" {
		t.Errorf("completion model = %q", cfg.Completion.Model)
	}
	if cfg.Completion.Timeout != 30*time.Second {
		t.Errorf("completion timeout = %v", cfg.Completion.Timeout)
	}
	if cfg.Workers != 5 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if cfg.CompletionConfigured() || cfg.TwilioConfigured() {
		t.Error("no credentials must mean nothing configured")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  host: 0.0.0.0
  port: 9090
  public_url: https://agent.example.com
workers: 3
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("server = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.PublicURL != "https://agent.example.com" {
		t.Errorf("public URL = %q", cfg.Server.PublicURL)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	// Untouched sections keep their defaults
	if cfg.Completion.Model != "llama-3.3-70b-versatile" {
		t.Errorf("completion model = %q", cfg.Completion.Model)
	}
}

// Environment overrides win over both defaults and YAML
func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 9090\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("COMPLETION_TIMEOUT", "45s")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+15550001111")
	t.Setenv("WORKER_COUNT", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env override", cfg.Server.Port)
	}
	if cfg.Completion.Timeout != 45*time.Second {
		t.Errorf("timeout = %v", cfg.Completion.Timeout)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if !cfg.CompletionConfigured() {
		t.Error("API key set but CompletionConfigured is false")
	}
	if !cfg.TwilioConfigured() {
		t.Error("all Twilio creds set but TwilioConfigured is false")
	}
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if _, err := Load(); err == nil {
		t.Error("expected an error for a broken config file")
	}
}

// Partial Twilio credentials never count as configured
func TestTwilioConfiguredPartial(t *testing.T) {
	cfg := &Config{Twilio: TwilioConfig{AccountSID: "AC123", AuthToken: "token"}}
	if cfg.TwilioConfigured() {
		t.Error("missing phone number must mean unconfigured")
	}
}
