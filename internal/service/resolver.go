package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/recipe-graph/internal/identity"
	"github.com/d60-Lab/recipe-graph/internal/model"
	"github.com/d60-Lab/recipe-graph/internal/repository"
	"github.com/d60-Lab/recipe-graph/pkg/logger"
)

// Resolver 内容归属解析：把一个（格式可能漂移的）用户标识解析成他名下的全部菜谱。
// 历史数据把作者 id 写在四个不同的列上，所以查询是 变体 × 列 的叉积并发扇出，
// 结果按 id 去重合并。
type Resolver struct {
	recipes repository.RecipeRepository
	users   repository.UserRepository

	queryTimeout time.Duration // 单个子查询超时，超时只丢该子查询
	scanLimit    int           // 兜底全表扫描上限
}

// ResolveResult 解析结果
type ResolveResult struct {
	Recipes []*model.Recipe
	// LowConfidence 结果来自作者名模糊匹配兜底，仅供展示
	LowConfidence bool
	// Partial 有子查询失败/超时被丢弃，结果不完整
	Partial bool
}

func NewResolver(recipes repository.RecipeRepository, users repository.UserRepository, queryTimeout time.Duration, scanLimit int) *Resolver {
	if queryTimeout <= 0 {
		queryTimeout = 3 * time.Second
	}
	if scanLimit <= 0 {
		scanLimit = 100
	}
	return &Resolver{recipes: recipes, users: users, queryTimeout: queryTimeout, scanLimit: scanLimit}
}

// FindByOwner 解析某用户名下的菜谱，结果按 id 去重（先到先得），顺序不保证。
// 全部子查询都失败时返回 ErrStoreUnavailable；部分失败降级为部分结果。
func (r *Resolver) FindByOwner(ctx context.Context, ownerID string) (*ResolveResult, error) {
	variants := identity.Variants(ownerID)
	// 空串/裸 sigil 没有任何变体，直接空结果
	if len(variants) == 0 {
		return &ResolveResult{Recipes: []*model.Recipe{}}, nil
	}

	type subQuery struct {
		field string
		value string
	}
	subs := make([]subQuery, 0, len(variants)*len(model.OwnerFields))
	for _, field := range model.OwnerFields {
		for _, v := range variants {
			subs = append(subs, subQuery{field: field, value: v})
		}
	}

	// 并发扇出，结果按子查询序号归位，合并顺序确定
	results := make([][]*model.Recipe, len(subs))
	errs := make([]error, len(subs))
	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub subQuery) {
			defer wg.Done()
			subCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
			defer cancel()
			recipes, err := r.recipes.FindByOwnerField(subCtx, sub.field, sub.value)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = recipes
		}(i, sub)
	}
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			logger.Warn("resolver sub-query dropped",
				zap.String("owner", ownerID),
				zap.String("field", subs[i].field),
				zap.String("value", subs[i].value),
				zap.Error(err))
		}
	}
	if failed == len(subs) {
		return nil, storeErr("findByOwner", ownerID, errs[0])
	}

	merged := mergeByID(results)
	if len(merged) > 0 {
		return &ResolveResult{Recipes: merged, Partial: failed > 0}, nil
	}

	// 直查全空：按展示名做有界模糊匹配兜底（大小写敏感，低置信度）
	fallback, err := r.fallbackByName(ctx, variants)
	if err != nil {
		return &ResolveResult{Recipes: []*model.Recipe{}, Partial: failed > 0}, nil
	}
	if len(fallback) == 0 {
		return &ResolveResult{Recipes: []*model.Recipe{}, Partial: failed > 0}, nil
	}
	return &ResolveResult{Recipes: fallback, LowConfidence: true, Partial: failed > 0}, nil
}

func (r *Resolver) fallbackByName(ctx context.Context, variants []string) ([]*model.Recipe, error) {
	u, err := r.users.GetByAnyID(ctx, variants)
	if err != nil || u.DisplayName == "" {
		return nil, err
	}
	candidates, err := r.recipes.ScanByAuthorName(ctx, u.DisplayName, r.scanLimit)
	if err != nil {
		logger.Warn("resolver name fallback failed", zap.String("name", u.DisplayName), zap.Error(err))
		return nil, err
	}
	// 方言的 LIKE 不保证大小写敏感，这里按来源语义复核
	filtered := make([][]*model.Recipe, 1)
	for _, c := range candidates {
		if strings.Contains(c.AuthorName, u.DisplayName) {
			filtered[0] = append(filtered[0], c)
		}
	}
	return mergeByID(filtered), nil
}

// mergeByID 按序合并多个结果集，id 首次出现的记录保留
func mergeByID(groups [][]*model.Recipe) []*model.Recipe {
	seen := make(map[string]struct{})
	var out []*model.Recipe
	for _, group := range groups {
		for _, rec := range group {
			if _, ok := seen[rec.ID]; ok {
				continue
			}
			seen[rec.ID] = struct{}{}
			out = append(out, rec)
		}
	}
	return out
}
