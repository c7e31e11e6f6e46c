package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-graph/pkg/logger"
)

// ProfileEvent 个人页数据有变（关注关系或菜谱增删改）
type ProfileEvent struct {
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}

// WatchHandle 订阅句柄。用完必须 Close，否则泄漏底层 pub/sub 连接。
type WatchHandle struct {
	C      <-chan ProfileEvent
	pubsub *redis.PubSub
	done   chan struct{}
}

// Close 释放订阅，C 随之关闭。可重复调用。
func (h *WatchHandle) Close() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}
	_ = h.pubsub.Close()
}

// ProfileWatcher 基于 redis pub/sub 的个人页变更推送
type ProfileWatcher struct {
	rdb *redis.Client
}

func NewProfileWatcher(rdb *redis.Client) *ProfileWatcher { return &ProfileWatcher{rdb: rdb} }

func channelFor(userID string) string { return "profile:updated:" + userID }

// PublishUpdate 广播某用户的个人页已变更。尽力而为，失败只记日志
func (w *ProfileWatcher) PublishUpdate(ctx context.Context, userID string) {
	if w == nil || w.rdb == nil {
		return
	}
	if err := w.rdb.Publish(ctx, channelFor(userID), time.Now().Format(time.RFC3339Nano)).Err(); err != nil {
		logger.Warn("profile event publish failed", zap.String("user", userID), zap.Error(err))
	}
}

// Watch 订阅某用户的个人页变更事件流
func (w *ProfileWatcher) Watch(ctx context.Context, userID string) (*WatchHandle, error) {
	pubsub := w.rdb.Subscribe(ctx, channelFor(userID))
	// 确认订阅建立，失败立即释放
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, storeErr("watchProfile", userID, err)
	}

	out := make(chan ProfileEvent, 16)
	h := &WatchHandle{C: out, pubsub: pubsub, done: make(chan struct{})}
	go func() {
		defer close(out)
		src := pubsub.Channel()
		for {
			select {
			case <-h.done:
				return
			case msg, ok := <-src:
				if !ok {
					return
				}
				at, _ := time.Parse(time.RFC3339Nano, msg.Payload)
				select {
				case out <- ProfileEvent{UserID: userID, At: at}:
				default:
					// 消费太慢就丢事件，订阅方本来就该重新拉全量
				}
			}
		}
	}()
	return h, nil
}
