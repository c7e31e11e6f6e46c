package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-graph/pkg/logger"
)

type repairJob struct {
	fromUserID string
	toUserID   string
	enqAt      time.Time
}

// EdgeRepairer 异步修复镜像边：读路径发现单边悬空时入队，
// worker 复查后删掉悬空侧。修复器从不补建缺失侧。
type EdgeRepairer struct {
	rel RelationshipService
	ch  chan repairJob
}

func NewEdgeRepairer(queueSize int) *EdgeRepairer {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &EdgeRepairer{ch: make(chan repairJob, queueSize)}
}

// Bind 注入关系服务。repairer 先于 service 构造（互相引用），启动前必须绑定。
func (r *EdgeRepairer) Bind(rel RelationshipService) { r.rel = rel }

// Start 启动 worker，返回停止函数；停止时等队列自然排空一小段时间
func (r *EdgeRepairer) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-r.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					if err := r.rel.RepairEdge(ctx, job.fromUserID, job.toUserID); err != nil {
						logger.Warn("edge repair failed",
							zap.String("from", job.fromUserID),
							zap.String("to", job.toUserID),
							zap.Error(err))
					}
					cancel()
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(r.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (r *EdgeRepairer) Enqueue(fromUserID, toUserID string) {
	select {
	case r.ch <- repairJob{fromUserID: fromUserID, toUserID: toUserID, enqAt: time.Now()}:
	default:
		logger.Warn("repair queue full, drop", zap.String("from", fromUserID), zap.String("to", toUserID))
	}
}

// QueueLen 返回当前队列长度（采样值）。
func (r *EdgeRepairer) QueueLen() int { return len(r.ch) }
