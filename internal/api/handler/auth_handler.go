package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recipe-graph/internal/service"
	"github.com/d60-Lab/recipe-graph/pkg/response"
)

// Register 注册
// @Summary 注册
// @Tags 认证
// @Accept json
// @Param request body service.RegisterInput true "注册信息"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"id": u.ID, "username": u.Username})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录，返回 JWT
// @Summary 登录
// @Tags 认证
// @Accept json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Unauthorized(c, "invalid username or password")
		return
	}
	response.Success(c, gin.H{"token": token, "id": u.ID, "username": u.Username})
}
