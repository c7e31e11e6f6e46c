package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWatcher(t *testing.T) *ProfileWatcher {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewProfileWatcher(rdb)
}

func TestWatchReceivesProfileEvents(t *testing.T) {
	w := setupWatcher(t)
	ctx := ctxT(t)

	h, err := w.Watch(ctx, "@cook_1")
	require.NoError(t, err)
	defer h.Close()

	w.PublishUpdate(ctx, "@cook_1")

	select {
	case ev := <-h.C:
		assert.Equal(t, "@cook_1", ev.UserID)
		assert.WithinDuration(t, time.Now(), ev.At, 5*time.Second)
	case <-time.After(3 * time.Second):
		t.Fatal("no profile event received")
	}
}

// 频道按用户隔离，别人的更新不会串进来
func TestWatchScopedToUser(t *testing.T) {
	w := setupWatcher(t)
	ctx := ctxT(t)

	h, err := w.Watch(ctx, "@cook_1")
	require.NoError(t, err)
	defer h.Close()

	w.PublishUpdate(ctx, "@cook_2")

	select {
	case ev, ok := <-h.C:
		if ok {
			t.Fatalf("unexpected event for %s", ev.UserID)
		}
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchCloseReleasesChannel(t *testing.T) {
	w := setupWatcher(t)

	h, err := w.Watch(ctxT(t), "@cook_1")
	require.NoError(t, err)

	h.Close()
	h.Close() // 可重复调用

	select {
	case _, ok := <-h.C:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after Close")
	}
}

// watcher 为空时发布是 no-op，不会 panic
func TestPublishUpdateNilWatcher(t *testing.T) {
	var w *ProfileWatcher
	w.PublishUpdate(ctxT(t), "@cook_1")
}
