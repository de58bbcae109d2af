package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"yks-planner/backend/internal/service"
	"yks-planner/backend/pkg/response"
)

// StatsHandler 统计模块 HTTP 处理器
type StatsHandler struct {
	statsSvc service.StatsService
}

// NewStatsHandler 创建 StatsHandler
func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// GetStatistics 当前用户学习统计
// GET /api/v1/stats
func (h *StatsHandler) GetStatistics(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	stats, err := h.statsSvc.GetStatistics(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}
