package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/recipe-graph/internal/identity"
	"github.com/d60-Lab/recipe-graph/internal/model"
	"github.com/d60-Lab/recipe-graph/internal/repository"
)

// RelationshipService 关系链服务。
// follows 与 fans 互为镜像，成对写入/删除必须在同一事务内完成，
// 读侧任何时刻都不应看到单边存在的边。
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
	// ToggleFollow 返回操作后的关注状态
	ToggleFollow(ctx context.Context, fromUserID, toUserID string) (bool, error)
	IsFollowing(ctx context.Context, fromUserID, toUserID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
	// Counts 关注/粉丝计数，按邻接表基数实时派生，不维护独立计数器
	Counts(ctx context.Context, userID string) (followerCount, followingCount int64, err error)
	// CheckEdge 校验镜像边一致性，单边存在返回 ErrInconsistentEdge 并交给 repairer
	CheckEdge(ctx context.Context, fromUserID, toUserID string) error
	// RepairEdge 删除悬空的单边；缺失侧不补建（无法确认原始意图）
	RepairEdge(ctx context.Context, fromUserID, toUserID string) error
}

type relationshipService struct {
	db         *gorm.DB
	followRepo repository.FollowRepository
	fanRepo    repository.FanRepository
	repairer   *EdgeRepairer
	watcher    *ProfileWatcher
}

func NewRelationshipService(db *gorm.DB, followRepo repository.FollowRepository, fanRepo repository.FanRepository, repairer *EdgeRepairer, watcher *ProfileWatcher) RelationshipService {
	return &relationshipService{db: db, followRepo: followRepo, fanRepo: fanRepo, repairer: repairer, watcher: watcher}
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
	// 沿用来源语义：裸比较，不做变体归一
	if identity.Equal(fromUserID, toUserID) {
		return fmt.Errorf("%w: cannot follow self (%s)", ErrInvalidRelationship, fromUserID)
	}
	now := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follow := &model.Follow{ID: uuid.New().String(), FollowerID: fromUserID, FolloweeID: toUserID, CreatedAt: now, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error; err != nil {
			return err
		}
		fan := &model.Fan{ID: uuid.New().String(), UserID: toUserID, FanID: fromUserID, CreatedAt: now, UpdatedAt: now}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(fan).Error
	})
	if err != nil {
		return storeErr("follow", fromUserID, err)
	}
	s.notify(ctx, fromUserID, toUserID)
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
	// 删除不存在的边按幂等成功处理
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? AND followee_id = ?", fromUserID, toUserID).
			Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND fan_id = ?", toUserID, fromUserID).
			Delete(&model.Fan{}).Error
	})
	if err != nil {
		return storeErr("unfollow", fromUserID, err)
	}
	s.notify(ctx, fromUserID, toUserID)
	return nil
}

func (s *relationshipService) ToggleFollow(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	following, err := s.IsFollowing(ctx, fromUserID, toUserID)
	if err != nil {
		return false, err
	}
	if following {
		if err := s.Unfollow(ctx, fromUserID, toUserID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Follow(ctx, fromUserID, toUserID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	ok, err := s.followRepo.Exists(ctx, fromUserID, toUserID)
	if err != nil {
		return false, storeErr("isFollowing", fromUserID, err)
	}
	return ok, nil
}

func (s *relationshipService) Followers(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.fanRepo.ListFanIDs(ctx, userID)
	if err != nil {
		return nil, storeErr("followers", userID, err)
	}
	return ids, nil
}

func (s *relationshipService) Following(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.followRepo.ListFollowingIDs(ctx, userID)
	if err != nil {
		return nil, storeErr("following", userID, err)
	}
	return ids, nil
}

func (s *relationshipService) Counts(ctx context.Context, userID string) (int64, int64, error) {
	followers, err := s.fanRepo.CountFans(ctx, userID)
	if err != nil {
		return 0, 0, storeErr("counts", userID, err)
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, storeErr("counts", userID, err)
	}
	return followers, following, nil
}

func (s *relationshipService) CheckEdge(ctx context.Context, fromUserID, toUserID string) error {
	hasFollow, err := s.followRepo.Exists(ctx, fromUserID, toUserID)
	if err != nil {
		return storeErr("checkEdge", fromUserID, err)
	}
	hasFan, err := s.fanRepo.Exists(ctx, toUserID, fromUserID)
	if err != nil {
		return storeErr("checkEdge", fromUserID, err)
	}
	if hasFollow == hasFan {
		return nil
	}
	side := "follow"
	if hasFan {
		side = "fan"
	}
	if s.repairer != nil {
		s.repairer.Enqueue(fromUserID, toUserID)
	}
	return edgeErr(fromUserID, toUserID, side)
}

func (s *relationshipService) RepairEdge(ctx context.Context, fromUserID, toUserID string) error {
	hasFollow, err := s.followRepo.Exists(ctx, fromUserID, toUserID)
	if err != nil {
		return storeErr("repairEdge", fromUserID, err)
	}
	hasFan, err := s.fanRepo.Exists(ctx, toUserID, fromUserID)
	if err != nil {
		return storeErr("repairEdge", fromUserID, err)
	}
	if hasFollow == hasFan {
		return nil // 两边一致，无需修复
	}
	// 只删悬空侧，不补建缺失侧
	if hasFollow {
		err = s.db.WithContext(ctx).
			Where("follower_id = ? AND followee_id = ?", fromUserID, toUserID).
			Delete(&model.Follow{}).Error
	} else {
		err = s.db.WithContext(ctx).
			Where("user_id = ? AND fan_id = ?", toUserID, fromUserID).
			Delete(&model.Fan{}).Error
	}
	if err != nil {
		return storeErr("repairEdge", fromUserID, err)
	}
	return nil
}

func (s *relationshipService) notify(ctx context.Context, ids ...string) {
	if s.watcher == nil {
		return
	}
	for _, id := range ids {
		s.watcher.PublishUpdate(ctx, id)
	}
}
