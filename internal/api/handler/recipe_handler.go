package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-graph/internal/service"
	"github.com/d60-Lab/recipe-graph/pkg/middleware"
	"github.com/d60-Lab/recipe-graph/pkg/response"
)

// CreateRecipe 发布菜谱（同事务写 outbox，异步扇出到粉丝时间线）
// @Summary 发布菜谱
// @Tags 菜谱
// @Accept json
// @Produce json
// @Param request body service.RecipeInput true "菜谱内容"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 400 {object} response.Response
// @Router /api/v1/recipes [post]
func (h *Handler) CreateRecipe(c *gin.Context) {
	var in service.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	id, err := h.recipeService.Publish(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// GetRecipe 取单个菜谱
// @Summary 菜谱详情
// @Tags 菜谱
// @Param id path string true "菜谱ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/recipes/{id} [get]
func (h *Handler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, recipe)
}

// UpdateRecipe 更新菜谱（仅作者本人）
// @Summary 更新菜谱
// @Tags 菜谱
// @Accept json
// @Param id path string true "菜谱ID"
// @Param request body service.RecipeInput true "菜谱内容"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/recipes/{id} [put]
func (h *Handler) UpdateRecipe(c *gin.Context) {
	var in service.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.recipeService.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), in)
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Success(c, nil)
	}
}

// DeleteRecipe 删除菜谱（仅作者本人）
// @Summary 删除菜谱
// @Tags 菜谱
// @Param id path string true "菜谱ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/recipes/{id} [delete]
func (h *Handler) DeleteRecipe(c *gin.Context) {
	err := h.recipeService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Success(c, nil)
	}
}

type favoriteRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

// ToggleFavorite 切换收藏状态
// @Summary 切换收藏
// @Tags 菜谱
// @Accept json
// @Param request body favoriteRequest true "菜谱"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/favorites/toggle [post]
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	fav, err := h.profileService.ToggleFavorite(c.Request.Context(), middleware.CurrentUser(c), req.RecipeID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"is_favorite": fav})
}
