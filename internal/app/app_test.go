package app_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OrionApplePie/ProjectsAutomation/internal/app"
	"github.com/OrionApplePie/ProjectsAutomation/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const roster = `
participants:
  - {name: Anna, telegram: anna, role: PM, slots: ["18:00"]}
  - {name: Boris, telegram: boris, role: ST, level: JR, slots: ["18:00"]}
  - {name: Vera, telegram: vera, role: ST, level: JR, slots: ["09:00"]}
`

func TestApp_EndToEndWithRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.DB.Path = ":memory:"
	cfg.Lock.Backend = "redis"
	cfg.Notify.Sender = "redis"
	cfg.Redis.Addr = mr.Addr()

	a, err := app.New(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })

	_, err = a.Importer.Import(ctx, strings.NewReader(roster))
	require.NoError(t, err)
	for username, chat := range map[string]int64{"anna": 100, "boris": 111, "vera": 112} {
		_, err := a.Participants.LinkTelegram(ctx, username, chat)
		require.NoError(t, err)
	}

	summary, err := a.Distribution.Run(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Teams, 1)
	require.False(t, mr.Exists("teams:lock:distribution"))

	teams, unallocated, err := a.NotifyAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, teams.Sent)
	require.Equal(t, 1, unallocated.Sent)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	n, err := client.XLen(ctx, cfg.Notify.Stream).Result()
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestApp_RedisUnavailable(t *testing.T) {
	cfg := config.Default()
	cfg.DB.Path = ":memory:"
	cfg.Lock.Backend = "redis"
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := app.New(context.Background(), cfg, nil)
	require.ErrorContains(t, err, "connect to redis")
}

func TestApp_ReopensFileDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), "data", "teams.db")

	first, err := app.New(ctx, cfg, nil)
	require.NoError(t, err)
	_, err = first.Importer.Import(ctx, strings.NewReader(roster))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := app.New(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, second.Close()) })

	summary, err := second.Distribution.Run(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Teams, 1)
}
