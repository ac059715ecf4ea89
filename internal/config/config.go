// Package config loads the EcoSort server configuration from an optional
// YAML file with CLI flag overrides.
package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	Port    int  `yaml:"port"`
	Verbose bool `yaml:"verbose"`
	// SeedFile is an optional JSON state snapshot loaded at startup in
	// place of the built-in fixtures.
	SeedFile string `yaml:"seed_file"`
	// SessionSecret signs the session tokens issued on signin.
	SessionSecret string        `yaml:"session_secret"`
	Webhook       WebhookConfig `yaml:"webhook"`
}

// WebhookConfig configures outbound bin fill alerts.
type WebhookConfig struct {
	URL    string `yaml:"url"`
	Secret string `yaml:"secret"`
	// AlertThreshold is the fill percentage at or above which a
	// bin.fill_alert event fires. Zero disables alerts.
	AlertThreshold float64 `yaml:"alert_threshold"`
}

// Default returns the configuration used when no file or flags are given.
func Default() *Config {
	return &Config{
		Port:          8080,
		SessionSecret: "ecosort-dev-secret",
		Webhook: WebhookConfig{
			AlertThreshold: 90,
		},
	}
}

// LoadFile reads a YAML config file over the defaults. A missing file is
// not an error; it yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseFlags parses CLI flags, loads the config file if one was named, and
// applies flag overrides on top.
func ParseFlags() (*Config, error) {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		port       = flag.Int("port", 0, "HTTP listen port")
		seedFile   = flag.String("seed-file", "", "Path to JSON state snapshot for initial state")
		verbose    = flag.Bool("verbose", false, "Enable request logging")
		webhookURL = flag.String("webhook-url", "", "URL to send bin fill alerts to")
	)
	flag.Parse()

	cfg, err := LoadFile(*configPath)
	if err != nil {
		return nil, err
	}

	if *port != 0 {
		cfg.Port = *port
	} else if p := os.Getenv("PORT"); p != "" {
		fmt.Sscanf(p, "%d", &cfg.Port)
	}
	if *seedFile != "" {
		cfg.SeedFile = *seedFile
	}
	if *verbose {
		cfg.Verbose = true
	}
	if *webhookURL != "" {
		cfg.Webhook.URL = *webhookURL
	}

	return cfg, nil
}
