package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"yks-planner/backend/internal/service"
	"yks-planner/backend/pkg/response"
)

// AchievementHandler 成就模块 HTTP 处理器
type AchievementHandler struct {
	achievementSvc service.AchievementService
}

// NewAchievementHandler 创建 AchievementHandler
func NewAchievementHandler(achievementSvc service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementSvc: achievementSvc}
}

// ListAchievements 成就目录 + 当前用户进度
// GET /api/v1/achievements
func (h *AchievementHandler) ListAchievements(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.achievementSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// Evaluate 主动触发成就评估（仪表盘刷新用）
// POST /api/v1/achievements/evaluate
func (h *AchievementHandler) Evaluate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.achievementSvc.Evaluate(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Leaderboard 积分排行榜
// GET /api/v1/achievements/leaderboard?limit=20
func (h *AchievementHandler) Leaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, err := h.achievementSvc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, entries)
}
