package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/service"
	"yks-planner/backend/pkg/response"
)

// UserHandler 用户档案模块 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// UpdateProfile 更新当前用户档案
// PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, "用户不存在")
		case errors.Is(err, service.ErrUserConflict):
			response.Error(c, http.StatusConflict, 12002, "档案已被其他操作修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, user)
}
