package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr         string          `yaml:"addr"`
	DatabasePath string          `yaml:"database_path"`
	APITimeout   time.Duration   `yaml:"api_timeout"`
	Keepalive    KeepaliveConfig `yaml:"keepalive"`
}

type KeepaliveConfig struct {
	// ProjectTimeout bounds the total time spent on a single project's
	// check plan (primary probe plus fallback).
	ProjectTimeout time.Duration `yaml:"project_timeout"`
	// RequestTimeout bounds each individual probe request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LoadConfig builds the configuration from defaults, environment variables
// and an optional YAML file, in that order of precedence (file wins).
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:         getEnv("KEEPALIVE_ADDR", ":8080"),
		DatabasePath: getEnv("KEEPALIVE_DATABASE_PATH", "keepalive.db"),
		APITimeout:   15 * time.Second,
		Keepalive: KeepaliveConfig{
			ProjectTimeout: 12 * time.Second,
			RequestTimeout: 5 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("addr must not be empty")
	case c.DatabasePath == "":
		return fmt.Errorf("database_path must not be empty")
	case c.APITimeout <= 0:
		return fmt.Errorf("api_timeout must be positive")
	case c.Keepalive.ProjectTimeout <= 0:
		return fmt.Errorf("keepalive.project_timeout must be positive")
	case c.Keepalive.RequestTimeout <= 0:
		return fmt.Errorf("keepalive.request_timeout must be positive")
	case c.Keepalive.RequestTimeout > c.Keepalive.ProjectTimeout:
		return fmt.Errorf("keepalive.request_timeout must not exceed keepalive.project_timeout")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
