package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-graph/internal/service"
	"github.com/d60-Lab/recipe-graph/pkg/middleware"
	"github.com/d60-Lab/recipe-graph/pkg/response"
)

type followRequest struct {
	ToUserID string `json:"to_user_id" binding:"required,userid"`
}

// Follow 建立关注（镜像边同事务写入）
// @Summary 关注用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "关注信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	from := middleware.CurrentUser(c)
	if err := h.relService.Follow(c.Request.Context(), from, req.ToUserID); err != nil {
		if errors.Is(err, service.ErrInvalidRelationship) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	h.followerCache.Invalidate(c.Request.Context(), req.ToUserID)
	response.Success(c, nil)
}

// Unfollow 取消关注（幂等）
// @Summary 取消关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "取消关注信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	from := middleware.CurrentUser(c)
	if err := h.relService.Unfollow(c.Request.Context(), from, req.ToUserID); err != nil {
		response.InternalError(c, err)
		return
	}
	h.followerCache.Invalidate(c.Request.Context(), req.ToUserID)
	response.Success(c, nil)
}

// ToggleFollow 切换关注状态
// @Summary 切换关注状态
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body followRequest true "目标用户"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/relations/toggle [post]
func (h *Handler) ToggleFollow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	from := middleware.CurrentUser(c)
	following, err := h.profileService.ToggleFollow(c.Request.Context(), from, req.ToUserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRelationship) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	h.followerCache.Invalidate(c.Request.Context(), req.ToUserID)
	response.Success(c, gin.H{"is_following": following})
}

// ListFollowers 查询某用户的粉丝（走 redis 缓存的资料快照）
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/relations/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	userID := c.Param("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	list, err := h.followerCache.Fetch(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/relations/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	userID := c.Param("user_id")
	list, err := h.relService.Following(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}

type repairRequest struct {
	FromUserID string `json:"from_user_id" binding:"required,userid"`
	ToUserID   string `json:"to_user_id" binding:"required,userid"`
}

// RepairEdge 修复单边悬空的镜像边
// @Summary 修复镜像边
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body repairRequest true "边的两端"
// @Success 200 {object} response.Response
// @Router /api/v1/relations/repair [post]
func (h *Handler) RepairEdge(c *gin.Context) {
	var req repairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relService.RepairEdge(c.Request.Context(), req.FromUserID, req.ToUserID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}
