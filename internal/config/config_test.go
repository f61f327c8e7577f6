package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []int{1, 5, 10, 20, 50}, cfg.LoadTest.ThreadCounts)
	assert.Equal(t, 5, cfg.LoadTest.Iterations)
	assert.Equal(t, time.Second, cfg.LoadTest.SettleDelay)
	assert.Equal(t, "ecommerce_olist", cfg.Database.Name)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigKeepsDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  user: bench
load_test:
  iterations: 20
  settle_delay: 250ms
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "bench", cfg.Database.User)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 20, cfg.LoadTest.Iterations)
	assert.Equal(t, 250*time.Millisecond, cfg.LoadTest.SettleDelay)
	assert.Equal(t, []int{1, 5, 10, 20, 50}, cfg.LoadTest.ThreadCounts)
	assert.Equal(t, "data/raw", cfg.Explorer.DataPath)
}

func TestLoadConfigPasswordFromEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "s3cret")
	path := writeConfig(t, "database:\n  password: from-file\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "database: [not, a, map")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"mysql driver", func(c *Config) { c.Database.Driver = "mysql" }, false},
		{"zero port", func(c *Config) { c.Database.Port = 0 }, true},
		{"dsn skips host checks", func(c *Config) {
			c.Database.Host = ""
			c.Database.Port = 0
			c.Database.DSN = "postgres://localhost/ecommerce_olist"
		}, false},
		{"no thread counts", func(c *Config) { c.LoadTest.ThreadCounts = nil }, true},
		{"zero threads", func(c *Config) { c.LoadTest.ThreadCounts = []int{1, 0} }, true},
		{"zero iterations", func(c *Config) { c.LoadTest.Iterations = 0 }, true},
		{"negative delay", func(c *Config) { c.LoadTest.SettleDelay = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
