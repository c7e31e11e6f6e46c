package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-graph/pkg/logger"
)

// CountService 展示计数派生。展示语义容忍陈旧数据不容忍崩溃：
// 任何一路解析失败都回退为 0，不向调用方抛错。
type CountService struct {
	resolver *Resolver
	rel      RelationshipService
}

func NewCountService(resolver *Resolver, rel RelationshipService) *CountService {
	return &CountService{resolver: resolver, rel: rel}
}

func (s *CountService) Counts(ctx context.Context, userID string) Counts {
	var c Counts
	if res, err := s.resolver.FindByOwner(ctx, userID); err != nil {
		logger.Warn("recipe count degraded to zero", zap.String("user", userID), zap.Error(err))
	} else {
		c.RecipeCount = len(res.Recipes)
	}
	followers, following, err := s.rel.Counts(ctx, userID)
	if err != nil {
		logger.Warn("relation counts degraded to zero", zap.String("user", userID), zap.Error(err))
		return c
	}
	c.FollowerCount = int(followers)
	c.FollowingCount = int(following)
	return c
}
