package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/service"
	"yks-planner/backend/pkg/response"
)

// PlanHandler 周计划模块 HTTP 处理器
type PlanHandler struct {
	planSvc        service.PlanService
	achievementSvc service.AchievementService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService, achievementSvc service.AchievementService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, achievementSvc: achievementSvc}
}

// GetPlan 当前活跃周计划
// GET /api/v1/plan
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	plan, err := h.planSvc.GetActive(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.NotFound(c, 14001, "暂无周计划")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, plan)
}

// GeneratePlan 重新生成周计划（全量替换，完成状态随旧计划清除）
// POST /api/v1/plan/generate
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	plan, err := h.planSvc.Regenerate(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			// 无活跃科目且无既有计划
			response.NotFound(c, 14001, "暂无周计划，请先添加科目")
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, 12001, "用户不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, plan)
}

// CompleteSessionResult 完成打卡响应：完成状态 + 本次新解锁成就
type CompleteSessionResult struct {
	Completed     bool                      `json:"completed"`
	NewlyUnlocked []dto.AchievementResponse `json:"newly_unlocked"`
	TotalPoints   int                       `json:"total_points"`
	Level         int                       `json:"level"`
}

// CompleteSession 标记场次完成并评估成就
// POST /api/v1/plan/sessions/:id/complete
//
// 过期的场次 ID（重新生成后的残留引用）静默返回 completed=false，
// 不视为错误。
func (h *PlanHandler) CompleteSession(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	// 请求体可省略（不上报实际用时）
	var req dto.CompleteSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	completed, err := h.planSvc.CompleteSession(c.Request.Context(), userID, c.Param("id"), req.ActualMinutes)
	if err != nil {
		response.InternalError(c)
		return
	}

	result := CompleteSessionResult{
		Completed:     completed,
		NewlyUnlocked: []dto.AchievementResponse{},
	}

	if completed {
		eval, err := h.achievementSvc.Evaluate(c.Request.Context(), userID)
		if err != nil {
			response.InternalError(c)
			return
		}
		result.NewlyUnlocked = eval.NewlyUnlocked
		result.TotalPoints = eval.TotalPoints
		result.Level = eval.Level
	}

	response.OK(c, result)
}
