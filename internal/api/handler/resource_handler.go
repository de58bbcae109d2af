package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"yks-planner/backend/internal/service"
	"yks-planner/backend/pkg/response"
)

// ResourceHandler 资源建议模块 HTTP 处理器
type ResourceHandler struct {
	resourceSvc service.ResourceService
}

// NewResourceHandler 创建 ResourceHandler
func NewResourceHandler(resourceSvc service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceSvc: resourceSvc}
}

// Suggest 备考资源建议（赛道取自 token，水平可由 query 覆盖）
// GET /api/v1/resources?level=3
func (h *ResourceHandler) Suggest(c *gin.Context) {
	track, ok := MustGetTrack(c)
	if !ok {
		return
	}

	level, err := strconv.Atoi(c.DefaultQuery("level", "3"))
	if err != nil || level < 1 || level > 5 {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	response.OK(c, h.resourceSvc.Suggest(c.Request.Context(), track, level))
}
