package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000", cfg.API.BaseURL)
	assert.Equal(t, "/roles", cfg.API.ResourcePath)
	assert.Equal(t, "default", cfg.Session.Profile)
	assert.Equal(t, "rolectl", cfg.Session.Prefix)
	assert.Equal(t, time.Minute, cfg.Refresh.Lead)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rolectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://roles.example.com
  timeout: 5s
redis:
  addr: 127.0.0.1:6379
  db: 2
output:
  format: json
`), 0o600))
	t.Setenv("ROLECTL_SESSION_PROFILE", "staging")

	cfg, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "https://roles.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "staging", cfg.Session.Profile)
}

func TestLoadOverridesFromViper(t *testing.T) {
	t.Chdir(t.TempDir())

	v := viper.New()
	v.Set("api.base_url", "http://127.0.0.1:9999")
	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.API.BaseURL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"level", "logging.level", "loud"},
		{"format", "output.format", "xml"},
		{"profile", "session.profile", ""},
		{"base url", "api.base_url", "ftp://example.com"},
		{"resource path", "api.resource_path", "roles"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := Load(v, "")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestClientConfig(t *testing.T) {
	cfg := &Config{
		API:     APIConfig{BaseURL: "http://api", ResourcePath: "/r", Timeout: time.Second, RateLimit: 5},
		Session: SessionConfig{Profile: "p", Prefix: "x", TTL: time.Hour, LogoutOnUnauthorized: true},
		Refresh: RefreshConfig{Lead: 30 * time.Second},
	}
	c := cfg.Client()
	assert.Equal(t, "http://api", c.API.BaseURL)
	assert.Equal(t, "/r", c.API.ResourcePath)
	assert.Equal(t, 5.0, c.Transport.RateLimit)
	assert.GreaterOrEqual(t, c.Transport.Burst, 1)
	assert.Equal(t, "x", c.Session.RedisPrefix)
	assert.Equal(t, "p", c.Session.Profile)
	assert.True(t, c.Session.LogoutOnUnauthorized)
	assert.Equal(t, 30*time.Second, c.Refresh.Lead)
}
