package config

import (
	"log/slog"
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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.App.HTTP.Address())
	assert.Equal(t, time.UTC.String(), cfg.App.Location().String())
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("STUDIO_TEST_DB", "/tmp/studio-test.db")
	path := writeConfig(t, `
app:
  log_level: debug
  http:
    port: 9090
sqlite:
  path: ${STUDIO_TEST_DB}
lock:
  ttl: 5s
`)

	cfg := NewDefaultConfig()
	require.NoError(t, Load(path, cfg))

	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
	assert.Equal(t, 9090, cfg.App.HTTP.Port)
	assert.Equal(t, "/tmp/studio-test.db", cfg.SQLite.Path)
	assert.Equal(t, 5*time.Second, cfg.Lock.TTL)
	assert.Equal(t, LockDriverMemory, cfg.Lock.Driver)
	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.Equal(t, time.Hour, cfg.Scheduler.Interval)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "app:\n  http:\n    port: 70000\n"},
		{"unknown timezone", "app:\n  timezone: Mars/Olympus\n"},
		{"unknown lock driver", "lock:\n  driver: etcd\n"},
		{"redis without addr", "lock:\n  driver: redis\n  redis:\n    addr: \"\"\n"},
		{"scheduler interval too small", "scheduler:\n  enabled: true\n  interval: 10ms\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			err := Load(writeConfig(t, tt.body), cfg)
			assert.ErrorContains(t, err, "config validation failed")
		})
	}
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	cfg := NewDefaultConfig()

	require.NoError(t, LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), cfg))
	assert.Equal(t, 8080, cfg.App.HTTP.Port)
}

func TestLockConfig_DriverNormalized(t *testing.T) {
	cfg := LockConfig{Driver: "REDIS", Redis: RedisConfig{Addr: "localhost:6379"}}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, LockDriverRedis, cfg.Driver)
}
