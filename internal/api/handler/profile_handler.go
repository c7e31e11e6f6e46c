package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-graph/internal/service"
	"github.com/d60-Lab/recipe-graph/pkg/response"
)

// GetProfileBundle 个人页数据包：资料 + 计数 + 菜谱 + 粉丝/关注列表
// @Summary 个人页聚合数据
// @Tags 个人页
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=service.ProfileBundle}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id}/profile [get]
func (h *Handler) GetProfileBundle(c *gin.Context) {
	userID := c.Param("user_id")
	bundle, err := h.profileService.GetProfileBundle(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, bundle)
}

// GetCounts 展示计数（失败回退为 0，不报错）
// @Summary 展示计数
// @Tags 个人页
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=service.Counts}
// @Router /api/v1/users/{user_id}/counts [get]
func (h *Handler) GetCounts(c *gin.Context) {
	response.Success(c, h.countService.Counts(c.Request.Context(), c.Param("user_id")))
}

// SearchOwnedContent 某用户名下菜谱 + 过滤排序
// @Summary 名下菜谱搜索
// @Tags 个人页
// @Param user_id path string true "用户ID"
// @Param query query string false "标题子串（忽略大小写）"
// @Param only_favorites query bool false "只看收藏"
// @Param most_recent query int false "按时间取最近 N 条"
// @Success 200 {object} response.Response{data=[]service.EnrichedContent}
// @Router /api/v1/users/{user_id}/recipes [get]
func (h *Handler) SearchOwnedContent(c *gin.Context) {
	var f service.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, err := h.profileService.SearchOwnedContent(c.Request.Context(), c.Param("user_id"), f)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, items)
}

// GetRecentFeed 最近浏览 feed
// @Summary 最近浏览
// @Tags 个人页
// @Param user_id path string true "用户ID"
// @Param query query string false "标题子串（忽略大小写）"
// @Param only_favorites query bool false "只看收藏"
// @Param most_recent query int false "按时间取最近 N 条"
// @Success 200 {object} response.Response{data=[]service.EnrichedContent}
// @Router /api/v1/users/{user_id}/recent [get]
func (h *Handler) GetRecentFeed(c *gin.Context) {
	var f service.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, err := h.profileService.GetRecentFeed(c.Request.Context(), c.Param("user_id"), f)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, items)
}

// HomeFeed 首页时间线（已扇出的关注作者新菜谱）
// @Summary 首页时间线
// @Tags 个人页
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=[]service.EnrichedContent}
// @Router /api/v1/users/{user_id}/home [get]
func (h *Handler) HomeFeed(c *gin.Context) {
	userID := c.Param("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	items, err := h.profileService.HomeFeed(c.Request.Context(), userID, (page-1)*pageSize, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, items)
}

// WatchProfile 个人页变更事件流（SSE），连接断开时释放订阅
// @Summary 订阅个人页变更
// @Tags 个人页
// @Param user_id path string true "用户ID"
// @Produce text/event-stream
// @Router /api/v1/users/{user_id}/watch [get]
func (h *Handler) WatchProfile(c *gin.Context) {
	userID := c.Param("user_id")
	handle, err := h.profileService.Watch(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer handle.Close()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-handle.C:
			if !ok {
				return false
			}
			c.SSEvent("profile-updated", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
