package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server: {}\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 5*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:?cache=shared", cfg.Database.DSN)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "bedboard:http:", cfg.Cache.Redis.Prefix)
	assert.Equal(t, time.Duration(0), cfg.Census.ReloadInterval)
	assert.Equal(t, "America/Sao_Paulo", cfg.Census.Location.String())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9000
  cache_ttl_seconds: 30
database:
  driver: postgres
  dsn: "host=db user=bedboard"
cache:
  backend: redis
  redis:
    addr: "redis:6379"
census:
  path: /etc/bedboard/census.yaml
  reload_interval_seconds: 60
  timezone: America/Manaus
log:
  level: debug
  format: console
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db user=bedboard", cfg.Database.DSN)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "/etc/bedboard/census.yaml", cfg.Census.Path)
	assert.Equal(t, time.Minute, cfg.Census.ReloadInterval)
	assert.Equal(t, "America/Manaus", cfg.Census.Location.String())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_DSN", "file:test.db")
	t.Setenv("CENSUS_PATH", "/tmp/census.yaml")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, "/tmp/census.yaml", cfg.Census.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [unterminated\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "census:\n  timezone: Mars/Olympus_Mons\n"))
	assert.ErrorContains(t, err, "failed to load timezone")
}
