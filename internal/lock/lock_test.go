package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/OrionApplePie/ProjectsAutomation/internal/lock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client, mr
}

func TestLocal_RejectsSecondHolder(t *testing.T) {
	ctx := context.Background()
	l := lock.NewLocal()

	release, err := l.Acquire(ctx, "distribution")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "distribution")
	require.ErrorIs(t, err, lock.ErrHeld)

	other, err := l.Acquire(ctx, "other")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(ctx, "distribution")
	require.NoError(t, err)
	again()
}

func TestRedis_RejectsSecondHolder(t *testing.T) {
	ctx := context.Background()
	client, _ := setupTestRedis(t)

	first := lock.NewRedis(client, time.Minute, nil)
	second := lock.NewRedis(client, time.Minute, nil)

	release, err := first.Acquire(ctx, "distribution")
	require.NoError(t, err)

	_, err = second.Acquire(ctx, "distribution")
	require.ErrorIs(t, err, lock.ErrHeld)

	release()

	again, err := second.Acquire(ctx, "distribution")
	require.NoError(t, err)
	again()
}

func TestRedis_ExpiredLockIsNotReleasedByOldHolder(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	l := lock.NewRedis(client, time.Second, nil)

	stale, err := l.Acquire(ctx, "distribution")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := l.Acquire(ctx, "distribution")
	require.NoError(t, err)

	stale()
	require.True(t, mr.Exists("teams:lock:distribution"))

	_, err = l.Acquire(ctx, "distribution")
	require.ErrorIs(t, err, lock.ErrHeld)
	fresh()
	require.False(t, mr.Exists("teams:lock:distribution"))
}

func TestRedis_RenewsWhileHeld(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	l := lock.NewRedis(client, 300*time.Millisecond, nil)

	release, err := l.Acquire(ctx, "distribution")
	require.NoError(t, err)

	mr.FastForward(250 * time.Millisecond)
	require.Eventually(t, func() bool {
		return mr.TTL("teams:lock:distribution") > 200*time.Millisecond
	}, 2*time.Second, 20*time.Millisecond)

	release()
	require.False(t, mr.Exists("teams:lock:distribution"))
}

func TestRedis_StopsRenewingLostLock(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	l := lock.NewRedis(client, 300*time.Millisecond, nil)

	release, err := l.Acquire(ctx, "distribution")
	require.NoError(t, err)
	require.NoError(t, mr.Set("teams:lock:distribution", "someone-else"))
	mr.SetTTL("teams:lock:distribution", time.Minute)

	time.Sleep(250 * time.Millisecond)
	require.Equal(t, time.Minute, mr.TTL("teams:lock:distribution"))

	release()
	got, err := mr.Get("teams:lock:distribution")
	require.NoError(t, err)
	require.Equal(t, "someone-else", got)
}
