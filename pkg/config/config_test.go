package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "redis://localhost:6379/0", cfg.CacheRedisURL)
	assert.Equal(t, "courses_data", cfg.CacheKey)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 8, cfg.CourseraPages)
	assert.Equal(t, []string{"coursera", "harvard", "udacity", "who", "life"}, cfg.SourceNames())
	assert.False(t, cfg.BrowserEnabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "90m")
	t.Setenv("SOURCES", "Harvard, coursera,harvard")
	t.Setenv("BROWSER_ENABLED", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"harvard", "coursera"}, cfg.SourceNames())
	assert.True(t, cfg.BrowserEnabled)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\nFETCH_PROXIES=http://p1:8000,http://p2:8000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, []string{"http://p1:8000", "http://p2:8000"}, cfg.ProxyList())
}

func TestProxyListKeepsCase(t *testing.T) {
	cfg := &Config{FetchProxies: " http://User:Secret@p1:8000 ,http://User:Secret@p1:8000,,socks5://P2:1080"}

	assert.Equal(t, []string{"http://User:Secret@p1:8000", "socks5://P2:1080"}, cfg.ProxyList())
}
