package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-graph/pkg/middleware"
	"github.com/d60-Lab/recipe-graph/pkg/response"
)

type viewRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

// RecordView 记录一次菜谱浏览（幂等）
// @Summary 记录浏览
// @Tags 浏览
// @Accept json
// @Param request body viewRequest true "菜谱"
// @Success 200 {object} response.Response
// @Router /api/v1/activity/view [post]
func (h *Handler) RecordView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.profileService.RecordView(c.Request.Context(), middleware.CurrentUser(c), req.RecipeID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
