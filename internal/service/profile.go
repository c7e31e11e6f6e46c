package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-graph/internal/identity"
	"github.com/d60-Lab/recipe-graph/internal/model"
	"github.com/d60-Lab/recipe-graph/internal/repository"
	"github.com/d60-Lab/recipe-graph/pkg/logger"
)

// ProfileService 屏幕侧的聚合门面：个人页数据包、最近浏览 feed、
// 名下菜谱搜索、首页时间线。读路径一律偏向部分结果而不是整体失败。
type ProfileService struct {
	resolver  *Resolver
	rel       RelationshipService
	activity  *ActivityService
	counts    *CountService
	users     repository.UserRepository
	favorites repository.FavoriteRepository
	inbox     repository.InboxRepository
	recipes   repository.RecipeRepository
	watcher   *ProfileWatcher
}

func NewProfileService(
	resolver *Resolver,
	rel RelationshipService,
	activity *ActivityService,
	counts *CountService,
	users repository.UserRepository,
	favorites repository.FavoriteRepository,
	inbox repository.InboxRepository,
	recipes repository.RecipeRepository,
	watcher *ProfileWatcher,
) *ProfileService {
	return &ProfileService{
		resolver:  resolver,
		rel:       rel,
		activity:  activity,
		counts:    counts,
		users:     users,
		favorites: favorites,
		inbox:     inbox,
		recipes:   recipes,
		watcher:   watcher,
	}
}

// GetProfileBundle 一次取齐个人页数据。菜谱/关注/粉丝三路并发取，
// 某一路失败降级为空列表；用户本身不存在才算 NotFound。
func (s *ProfileService) GetProfileBundle(ctx context.Context, userID string) (*ProfileBundle, error) {
	u, err := s.users.GetByAnyID(ctx, identity.Variants(userID))
	if err == repository.ErrUserNotFound {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, storeErr("getProfileBundle", userID, err)
	}

	bundle := &ProfileBundle{
		Profile:   toAuthorProfile(u),
		Recipes:   []EnrichedContent{},
		Followers: []string{},
		Following: []string{},
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		res, err := s.resolver.FindByOwner(ctx, userID)
		if err != nil {
			logger.Warn("bundle recipes degraded", zap.String("user", userID), zap.Error(err))
			return
		}
		bundle.Recipes = s.enrich(ctx, res, userID)
	}()
	go func() {
		defer wg.Done()
		followers, err := s.rel.Followers(ctx, userID)
		if err != nil {
			logger.Warn("bundle followers degraded", zap.String("user", userID), zap.Error(err))
			return
		}
		bundle.Followers = followers
	}()
	go func() {
		defer wg.Done()
		following, err := s.rel.Following(ctx, userID)
		if err != nil {
			logger.Warn("bundle following degraded", zap.String("user", userID), zap.Error(err))
			return
		}
		bundle.Following = following
	}()
	wg.Wait()

	// 计数按取回的邻接表基数派生，和列表必然一致
	bundle.Counts = Counts{
		RecipeCount:    len(bundle.Recipes),
		FollowerCount:  len(bundle.Followers),
		FollowingCount: len(bundle.Following),
	}
	return bundle, nil
}

// SearchOwnedContent 某用户名下菜谱 + 过滤排序
func (s *ProfileService) SearchOwnedContent(ctx context.Context, ownerID string, f Filter) ([]EnrichedContent, error) {
	res, err := s.resolver.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ApplyFilter(s.enrich(ctx, res, ownerID), f), nil
}

// GetRecentFeed 最近浏览 feed + 过滤排序
func (s *ProfileService) GetRecentFeed(ctx context.Context, viewerID string, f Filter) ([]EnrichedContent, error) {
	items, err := s.activity.Feed(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return ApplyFilter(items, f), nil
}

// RecordView 记录一次浏览
func (s *ProfileService) RecordView(ctx context.Context, viewerID, recipeID string) error {
	return s.activity.RecordView(ctx, viewerID, recipeID)
}

// ToggleFollow 切换关注状态，返回新状态
func (s *ProfileService) ToggleFollow(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	return s.rel.ToggleFollow(ctx, fromUserID, toUserID)
}

// HomeFeed 首页时间线：inbox 里已扇出的关注作者新菜谱，新的在前
func (s *ProfileService) HomeFeed(ctx context.Context, userID string, offset, limit int) ([]EnrichedContent, error) {
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.inbox.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, storeErr("homeFeed", userID, err)
	}
	if len(entries) == 0 {
		return []EnrichedContent{}, nil
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.RecipeID
	}
	recipes, err := s.recipes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("homeFeed", userID, err)
	}
	byID := make(map[string]*model.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	authors := s.activity.resolveAuthors(ctx, recipes)
	favs := s.activity.favoriteSet(ctx, userID)

	out := make([]EnrichedContent, 0, len(entries))
	for _, e := range entries {
		recipe, ok := byID[e.RecipeID]
		if !ok {
			continue // 已删除
		}
		out = append(out, EnrichedContent{
			Recipe:     recipe,
			Author:     authors[recipe.OwnerID()],
			IsFavorite: favs[recipe.ID],
		})
	}
	return out, nil
}

// ToggleFavorite 切换收藏状态，返回新状态
func (s *ProfileService) ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	has, err := s.favorites.Exists(ctx, userID, recipeID)
	if err != nil {
		return false, storeErr("toggleFavorite", userID, err)
	}
	if has {
		if err := s.favorites.Delete(ctx, userID, recipeID); err != nil {
			return true, storeErr("toggleFavorite", userID, err)
		}
		return false, nil
	}
	if err := s.favorites.Create(ctx, userID, recipeID); err != nil {
		return false, storeErr("toggleFavorite", userID, err)
	}
	return true, nil
}

// Watch 订阅个人页变更
func (s *ProfileService) Watch(ctx context.Context, userID string) (*WatchHandle, error) {
	return s.watcher.Watch(ctx, userID)
}

// enrich 给解析结果补上作者信息和收藏标记；viewer 决定收藏标记的视角
func (s *ProfileService) enrich(ctx context.Context, res *ResolveResult, viewerID string) []EnrichedContent {
	authors := s.activity.resolveAuthors(ctx, res.Recipes)
	favs := s.activity.favoriteSet(ctx, viewerID)
	out := make([]EnrichedContent, 0, len(res.Recipes))
	for _, r := range res.Recipes {
		out = append(out, EnrichedContent{
			Recipe:        r,
			Author:        authors[r.OwnerID()],
			IsFavorite:    favs[r.ID],
			LowConfidence: res.LowConfidence,
		})
	}
	return out
}
