package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-graph/internal/identity"
	"github.com/d60-Lab/recipe-graph/internal/model"
	"github.com/d60-Lab/recipe-graph/internal/repository"
	"github.com/d60-Lab/recipe-graph/pkg/logger"
)

// ActivityService 最近浏览：每用户一条只增列表，按 id 去重，
// 超出保留上限从最旧的开始淘汰。
type ActivityService struct {
	activities repository.ActivityRepository
	recipes    repository.RecipeRepository
	users      repository.UserRepository
	favorites  repository.FavoriteRepository

	retentionCap int
}

func NewActivityService(activities repository.ActivityRepository, recipes repository.RecipeRepository, users repository.UserRepository, favorites repository.FavoriteRepository, retentionCap int) *ActivityService {
	if retentionCap <= 0 {
		retentionCap = 200
	}
	return &ActivityService{activities: activities, recipes: recipes, users: users, favorites: favorites, retentionCap: retentionCap}
}

// RecordView 记录一次浏览，同一菜谱重复浏览幂等
func (s *ActivityService) RecordView(ctx context.Context, viewerID, recipeID string) error {
	if err := s.activities.Append(ctx, viewerID, recipeID, s.retentionCap); err != nil {
		return storeErr("recordView", viewerID, err)
	}
	return nil
}

// Feed 返回最近浏览 feed，最新浏览在前。
// 底层没有逐条浏览时间，排序用追加位置重建的合成序号；
// 已删除的菜谱静默丢弃，作者查不到时 Author 为 nil 不报错。
func (s *ActivityService) Feed(ctx context.Context, viewerID string) ([]EnrichedContent, error) {
	ids, err := s.activities.IDs(ctx, viewerID)
	if err != nil {
		return nil, storeErr("feed", viewerID, err)
	}
	if len(ids) == 0 {
		return []EnrichedContent{}, nil
	}

	recipes, err := s.recipes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("feed", viewerID, err)
	}
	byID := make(map[string]*model.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	authors := s.resolveAuthors(ctx, recipes)
	favs := s.favoriteSet(ctx, viewerID)

	// ids 旧到新，倒序输出；rank 0 = 最新
	out := make([]EnrichedContent, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		recipe, ok := byID[ids[i]]
		if !ok {
			continue // 已删除
		}
		out = append(out, EnrichedContent{
			Recipe:     recipe,
			Author:     authors[recipe.OwnerID()],
			ViewRank:   len(ids) - 1 - i,
			IsFavorite: favs[recipe.ID],
		})
	}
	return out, nil
}

// resolveAuthors 批量解析作者展示信息：收齐所有 owner 的全部变体一次查库，
// 再按变体优先级回填。查不到的 owner 缺席于结果 map（取值得到 nil）。
func (s *ActivityService) resolveAuthors(ctx context.Context, recipes []*model.Recipe) map[string]*AuthorProfile {
	ownerVariants := make(map[string][]string)
	var all []string
	for _, r := range recipes {
		owner := r.OwnerID()
		if owner == "" {
			continue
		}
		if _, ok := ownerVariants[owner]; ok {
			continue
		}
		vs := identity.Variants(owner)
		ownerVariants[owner] = vs
		all = append(all, vs...)
	}
	if len(all) == 0 {
		return nil
	}

	users, err := s.users.GetByIDs(ctx, all)
	if err != nil {
		logger.Warn("author lookup failed", zap.Error(err))
		return nil
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make(map[string]*AuthorProfile, len(ownerVariants))
	for owner, vs := range ownerVariants {
		for _, v := range vs {
			if u, ok := byID[v]; ok {
				out[owner] = toAuthorProfile(u)
				break
			}
		}
	}
	return out
}

func (s *ActivityService) favoriteSet(ctx context.Context, viewerID string) map[string]bool {
	favs, err := s.favorites.Set(ctx, viewerID)
	if err != nil {
		logger.Warn("favorite set lookup failed", zap.String("viewer", viewerID), zap.Error(err))
		return nil
	}
	return favs
}
