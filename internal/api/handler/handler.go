package handler

import (
	"github.com/d60-Lab/recipe-graph/internal/cache"
	"github.com/d60-Lab/recipe-graph/internal/service"
)

// Handler 汇总全部 HTTP 处理器依赖
type Handler struct {
	relService     service.RelationshipService
	profileService *service.ProfileService
	recipeService  *service.RecipeService
	countService   *service.CountService
	authService    *service.AuthService
	followerCache  *cache.FollowerCache
}

func New(
	relService service.RelationshipService,
	profileService *service.ProfileService,
	recipeService *service.RecipeService,
	countService *service.CountService,
	authService *service.AuthService,
	followerCache *cache.FollowerCache,
) *Handler {
	return &Handler{
		relService:     relService,
		profileService: profileService,
		recipeService:  recipeService,
		countService:   countService,
		authService:    authService,
		followerCache:  followerCache,
	}
}
