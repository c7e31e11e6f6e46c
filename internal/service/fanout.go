package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-graph/internal/model"
	"github.com/d60-Lab/recipe-graph/internal/repository"
	"github.com/d60-Lab/recipe-graph/pkg/logger"
)

// FanoutWorker 从 outbox 拉取发布事件，把菜谱写进每个粉丝的 inbox 时间线
type FanoutWorker struct {
	db           *gorm.DB
	fanRepo      repository.FanRepository
	batchSize    int
	claimLimit   int
	pollInterval time.Duration
	workers      int
}

func NewFanoutWorker(db *gorm.DB, fanRepo repository.FanRepository, workers, batchSize, claimLimit int, pollInterval time.Duration) *FanoutWorker {
	if workers <= 0 {
		workers = 2
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	if claimLimit <= 0 {
		claimLimit = 64
	}
	if pollInterval <= 0 {
		pollInterval = 200 * time.Millisecond
	}
	return &FanoutWorker{db: db, fanRepo: fanRepo, workers: workers, batchSize: batchSize, claimLimit: claimLimit, pollInterval: pollInterval}
}

// Start 启动若干 worker 轮询处理 outbox；返回停止函数。
func (w *FanoutWorker) Start() func(context.Context) error {
	stop := make(chan struct{})
	for i := 0; i < w.workers; i++ {
		go w.loop(stop)
	}
	return func(ctx context.Context) error { close(stop); return nil }
}

func (w *FanoutWorker) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := w.ProcessOnce(context.Background()); err != nil {
				logger.Warn("fanout pass failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce claim 一批 pending outbox 并扇出。
// claim 用逐行条件更新实现（postgres/sqlite 通用）：
// 只有把该行从 pending 翻到 processing 的那个 worker 才扇出，并发下不会重复处理。
func (w *FanoutWorker) ProcessOnce(ctx context.Context) error {
	var candidates []model.Outbox
	if err := w.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at").
		Limit(w.claimLimit).
		Find(&candidates).Error; err != nil {
		return err
	}

	for _, b := range candidates {
		res := w.db.WithContext(ctx).Model(&model.Outbox{}).
			Where("id = ? AND status = ?", b.ID, "pending").
			Update("status", "processing")
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			continue // 别的 worker 抢到了
		}
		w.fanoutOne(ctx, b)
	}
	return nil
}

func (w *FanoutWorker) fanoutOne(ctx context.Context, out model.Outbox) {
	offset := 0
	page := w.batchSize
	totalWritten := int64(0)
	for {
		fans, err := w.fanRepo.ListFans(ctx, out.AuthorID, offset, page)
		if err != nil {
			logger.Warn("fanout fan page failed", zap.String("author", out.AuthorID), zap.Error(err))
			break
		}
		if len(fans) == 0 {
			break
		}
		now := time.Now()
		score := now.UnixNano()
		records := make([]model.Inbox, 0, len(fans))
		for _, f := range fans {
			records = append(records, model.Inbox{ID: uuid.New().String(), UserID: f.FanID, RecipeID: out.RecipeID, Score: score, CreatedAt: now})
		}
		// 唯一键兜底，重复扇出不产生重复时间线项
		if err := w.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&records).Error; err != nil {
			logger.Warn("fanout inbox write failed", zap.String("recipe", out.RecipeID), zap.Error(err))
		} else {
			totalWritten += int64(len(records))
		}
		if len(fans) < page {
			break
		}
		offset += page
	}
	now := time.Now()
	if err := w.db.WithContext(ctx).Model(&model.Outbox{}).
		Where("id = ?", out.ID).
		Updates(map[string]any{"status": "done", "processed_at": now, "fanout_count": totalWritten}).Error; err != nil {
		logger.Warn("fanout mark done failed", zap.String("outbox", out.ID), zap.Error(err))
	}
}
