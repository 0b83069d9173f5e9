package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listkeeper.conf")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestValidateLogLevel(t *testing.T) {
	validLevels := []string{"debug", "info", "warn", "error", "DEBUG", "INFO", "WARN", "ERROR"}
	for _, level := range validLevels {
		if err := ValidateLogLevel(level); err != nil {
			t.Errorf("ValidateLogLevel(%s) returned error: %v", level, err)
		}
	}

	invalidLevels := []string{"", "trace", "fatal", "invalid", "debugging"}
	for _, level := range invalidLevels {
		if err := ValidateLogLevel(level); err == nil {
			t.Errorf("ValidateLogLevel(%s) should return error", level)
		}
	}
}

func TestSetupDefaults(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv(configEnvVar, path)

	cfg, err := Setup()
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if cfg.Output.Dir != "lists" {
		t.Errorf("Output.Dir = %q, want lists", cfg.Output.Dir)
	}
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 30s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.Concurrency != 4 {
		t.Errorf("Fetch.Concurrency = %d, want 4", cfg.Fetch.Concurrency)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestSetupFullConfig(t *testing.T) {
	path := writeConfig(t, `
[output]
dir = "/var/lib/listkeeper"

[fetch]
timeout = "10s"
concurrency = 2

[logging]
level = "debug"

[sources.abuseipdb]
api_key = "k3y"

[sources.aws]
enabled = false

[sources.google]
urls = ["https://mirror.example/googlebot.json"]

[[custom]]
name = "internal"
url = "https://lists.example/internal.txt"
category = "blacklist_domain"
token = "t0ken"
`)
	t.Setenv(configEnvVar, path)

	cfg, err := Setup()
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}

	if cfg.Output.Dir != "/var/lib/listkeeper" {
		t.Errorf("Output.Dir = %q", cfg.Output.Dir)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("Fetch.Timeout = %v", cfg.Fetch.Timeout)
	}

	sc := cfg.SourceConfig()
	if !sc.Disabled["aws"] {
		t.Error("aws should be disabled")
	}
	if sc.Disabled["google"] {
		t.Error("google should stay enabled")
	}
	if got := sc.APIKeys["abuseipdb"]; got != "k3y" {
		t.Errorf("abuseipdb api key = %q", got)
	}
	if got := sc.URLs["google"]; len(got) != 1 || got[0] != "https://mirror.example/googlebot.json" {
		t.Errorf("google urls = %v", got)
	}
	if len(sc.Custom) != 1 {
		t.Fatalf("custom feeds = %v", sc.Custom)
	}
	custom := sc.Custom[0]
	if custom.Name != "internal" || custom.Category != "blacklist_domain" || custom.Auth.Token != "t0ken" {
		t.Errorf("unexpected custom feed: %+v", custom)
	}
}

func TestSetupRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "[logging]\nlevel = \"loud\"\n"},
		{"bad timeout", "[fetch]\ntimeout = \"soon\"\n"},
		{"bad concurrency", "[fetch]\nconcurrency = 0\n"},
		{"empty output dir", "[output]\ndir = \"\"\n"},
		{"unknown source", "[sources.shodan]\nenabled = true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			t.Setenv(configEnvVar, path)
			if _, err := Setup(); err == nil {
				t.Errorf("Setup should reject config:\n%s", tt.content)
			}
		})
	}
}

func TestSetupMissingExplicitConfig(t *testing.T) {
	t.Setenv(configEnvVar, filepath.Join(t.TempDir(), "missing.conf"))
	if _, err := Setup(); err == nil {
		t.Error("Setup should fail when the configured file does not exist")
	}
}
