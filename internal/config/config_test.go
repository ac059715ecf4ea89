package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Webhook.AlertThreshold != 90 {
		t.Errorf("expected default alert threshold 90, got %v", cfg.Webhook.AlertThreshold)
	}
	if cfg.SessionSecret == "" {
		t.Error("expected a default session secret")
	}
}

func TestLoadFileMissingIsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error for missing file: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected defaults for missing file, got port %d", cfg.Port)
	}
}

func TestLoadFileFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
port: 9090
verbose: true
seed_file: /var/lib/ecosort/seed.json
session_secret: topsecret
webhook:
  url: https://hooks.example.com/bins
  secret: whsec_abc
  alert_threshold: 80
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if !cfg.Verbose {
		t.Error("expected verbose=true")
	}
	if cfg.SeedFile != "/var/lib/ecosort/seed.json" {
		t.Errorf("unexpected seed file: %q", cfg.SeedFile)
	}
	if cfg.SessionSecret != "topsecret" {
		t.Errorf("unexpected session secret: %q", cfg.SessionSecret)
	}
	if cfg.Webhook.URL != "https://hooks.example.com/bins" {
		t.Errorf("unexpected webhook URL: %q", cfg.Webhook.URL)
	}
	if cfg.Webhook.AlertThreshold != 80 {
		t.Errorf("unexpected alert threshold: %v", cfg.Webhook.AlertThreshold)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
