package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/keepalive/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "keepalive.db", cfg.DatabasePath)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 12*time.Second, cfg.Keepalive.ProjectTimeout)
	assert.Equal(t, 5*time.Second, cfg.Keepalive.RequestTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("KEEPALIVE_ADDR", ":9999")
	t.Setenv("KEEPALIVE_DATABASE_PATH", "/tmp/other.db")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "/tmp/other.db", cfg.DatabasePath)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
addr: ":7070"
database_path: "data/keepalive.db"
keepalive:
  project_timeout: 20s
  request_timeout: 8s
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "data/keepalive.db", cfg.DatabasePath)
	assert.Equal(t, 20*time.Second, cfg.Keepalive.ProjectTimeout)
	assert.Equal(t, 8*time.Second, cfg.Keepalive.RequestTimeout)
	assert.Equal(t, 15*time.Second, cfg.APITimeout, "unset fields keep their defaults")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		cfg, err := config.LoadConfig("")
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }},
		{"empty database path", func(c *config.Config) { c.DatabasePath = "" }},
		{"zero api timeout", func(c *config.Config) { c.APITimeout = 0 }},
		{"zero project timeout", func(c *config.Config) { c.Keepalive.ProjectTimeout = 0 }},
		{"zero request timeout", func(c *config.Config) { c.Keepalive.RequestTimeout = 0 }},
		{"request timeout exceeds project timeout", func(c *config.Config) {
			c.Keepalive.RequestTimeout = c.Keepalive.ProjectTimeout + time.Second
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
