package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TEAMS_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.False(t, cfg.UsesRedis())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transport:
  mode: http
distribution:
  max_team_size: 4
  project_duration: 336h
  schedule: "0 0 10 * * MON"
lock:
  backend: redis
notify:
  sender: redis
  rate: 2.5
`), 0o600))

	t.Setenv("TEAMS_CONFIG_PATH", path)
	t.Setenv("TEAMS_DISTRIBUTION_MAX_TEAM_SIZE", "5")
	t.Setenv("TEAMS_REDIS_ADDR", "redis:6380")
	t.Setenv("TEAMS_AUTH_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 5, cfg.Distribution.MaxTeamSize)
	require.Equal(t, 14*24*time.Hour, cfg.Distribution.ProjectDuration)
	require.Equal(t, "0 0 10 * * MON", cfg.Distribution.Schedule)
	require.Equal(t, "redis:6380", cfg.Redis.Addr)
	require.Equal(t, 2.5, cfg.Notify.Rate)
	require.Equal(t, 5, cfg.Notify.Burst)
	require.True(t, cfg.Auth.Enabled)
	require.True(t, cfg.UsesRedis())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("TEAMS_CONFIG_PATH", "")

	t.Run("bad int", func(t *testing.T) {
		t.Setenv("TEAMS_SERVER_PORT", "eighty")
		_, err := Load()
		require.ErrorContains(t, err, "TEAMS_SERVER_PORT")
	})
	t.Run("bad mode", func(t *testing.T) {
		t.Setenv("TEAMS_TRANSPORT_MODE", "carrier-pigeon")
		_, err := Load()
		require.ErrorContains(t, err, "transport mode")
	})
	t.Run("negative team size", func(t *testing.T) {
		t.Setenv("TEAMS_DISTRIBUTION_MAX_TEAM_SIZE", "-1")
		_, err := Load()
		require.ErrorContains(t, err, "max_team_size")
	})
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("TEAMS_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := Load()
		require.ErrorContains(t, err, "read config file")
	})
}
