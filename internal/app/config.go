// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 agentless-hub contributors
// https://github.com/PedroNoriega/agentless-hub

package app

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/PedroNoriega/agentless-hub/internal/models"
)

// Configuration defaults.
const (
	DefaultPollIntervalSeconds = 30
	DefaultListenAddress       = ":8080"
	DefaultDatabasePath        = "data/metrics.db"

	envFile = ".env"
)

// Config is the full application configuration, loaded from a YAML file
// with environment variable overrides on top.
type Config struct {
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	DatabasePath        string `yaml:"database_path"`
	ListenAddress       string `yaml:"listen_address"`

	Logging LoggingConfig `yaml:"logging"`
	Hosts   []HostConfig  `yaml:"hosts"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HostConfig is one monitored host as declared in the config file.
type HostConfig struct {
	Name      string               `yaml:"name"`
	IP        string               `yaml:"ip"`
	OS        string               `yaml:"os"`
	ProbePort int                  `yaml:"probe_port"`
	SSH       *models.SSHProfile   `yaml:"ssh"`
	WinRM     *models.WinRMProfile `yaml:"winrm"`
}

// envOverrides are the environment knobs applied on top of the file.
type envOverrides struct {
	PollIntervalSeconds int    `env:"POLL_INTERVAL_SECONDS"`
	ListenAddress       string `env:"HUB_LISTEN_ADDR"`
	DatabasePath        string `env:"HUB_DB_PATH"`
	LogLevel            string `env:"HUB_LOG_LEVEL"`
	LogFormat           string `env:"HUB_LOG_FORMAT"`
}

// LoadConfig reads the YAML config file and applies environment
// overrides. path may be empty, in which case HUB_CONFIG_PATH and then
// ./config.yaml are tried.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	if path == "" {
		path = os.Getenv("HUB_CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		DatabasePath:        DefaultDatabasePath,
		ListenAddress:       DefaultListenAddress,
		Logging:             LoggingConfig{Level: "info", Format: "json"},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if ov.PollIntervalSeconds > 0 {
		cfg.PollIntervalSeconds = ov.PollIntervalSeconds
	}
	if ov.ListenAddress != "" {
		cfg.ListenAddress = ov.ListenAddress
	}
	if ov.DatabasePath != "" {
		cfg.DatabasePath = ov.DatabasePath
	}
	if ov.LogLevel != "" {
		cfg.Logging.Level = ov.LogLevel
	}
	if ov.LogFormat != "" {
		cfg.Logging.Format = ov.LogFormat
	}

	return cfg, nil
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// BuildHosts converts the configured host descriptors into model hosts.
func (c *Config) BuildHosts() []*models.Host {
	hosts := make([]*models.Host, 0, len(c.Hosts))
	for _, hc := range c.Hosts {
		hosts = append(hosts, &models.Host{
			Name:      hc.Name,
			IP:        hc.IP,
			OS:        models.OSType(hc.OS),
			ProbePort: hc.ProbePort,
			SSH:       hc.SSH,
			WinRM:     hc.WinRM,
		})
	}
	return hosts
}

// Validate checks the configuration for startup-fatal problems.
func (c *Config) Validate() error {
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be positive, got %d", c.PollIntervalSeconds)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address is required")
	}
	if len(c.Hosts) == 0 {
		return fmt.Errorf("at least one host must be configured")
	}
	for _, h := range c.BuildHosts() {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PrintMasked prints the configuration to stdout with credentials
// redacted.
func (c *Config) PrintMasked() {
	fmt.Printf("poll_interval_seconds: %d\n", c.PollIntervalSeconds)
	fmt.Printf("database_path: %s\n", c.DatabasePath)
	fmt.Printf("listen_address: %s\n", c.ListenAddress)
	fmt.Printf("logging: {level: %s, format: %s}\n", c.Logging.Level, c.Logging.Format)
	fmt.Println("hosts:")
	for _, h := range c.Hosts {
		fmt.Printf("  - name: %s\n", h.Name)
		fmt.Printf("    ip: %s\n", h.IP)
		fmt.Printf("    os: %s\n", h.OS)
		if h.ProbePort > 0 {
			fmt.Printf("    probe_port: %d\n", h.ProbePort)
		}
		if h.SSH != nil {
			fmt.Printf("    ssh: {username: %s, password: %s, private_key: %s, port: %d}\n",
				h.SSH.Username, mask(h.SSH.Password), h.SSH.PrivateKey, h.SSH.Port)
		}
		if h.WinRM != nil {
			fmt.Printf("    winrm: {username: %s, password: %s, scheme: %s, port: %d, verify_tls: %t}\n",
				h.WinRM.Username, mask(h.WinRM.Password), h.WinRM.Scheme, h.WinRM.Port, h.WinRM.VerifyTLS)
		}
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
