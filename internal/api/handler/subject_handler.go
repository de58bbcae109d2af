package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/service"
	"yks-planner/backend/pkg/response"
)

// SubjectHandler 科目模块 HTTP 处理器
type SubjectHandler struct {
	subjectSvc service.SubjectService
}

// NewSubjectHandler 创建 SubjectHandler
func NewSubjectHandler(subjectSvc service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc}
}

// ListSubjects 当前用户的全部科目
// GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	subjects, err := h.subjectSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, subjects)
}

// CreateSubject 创建科目（同时触发周计划重建）
// POST /api/v1/subjects
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.subjectSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, subject)
}

// UpdateSubject 更新科目（同时触发周计划重建）
// PUT /api/v1/subjects/:id
func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	subject, err := h.subjectSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}

	response.OK(c, subject)
}

// DeleteSubject 删除科目（其场次随计划重建一并清除）
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.subjectSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleSubjectError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSubjectError 科目模块业务错误 → 响应码映射
func (h *SubjectHandler) handleSubjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 13001, "科目不存在")
	case errors.Is(err, service.ErrSubjectConflict):
		response.Error(c, http.StatusConflict, 13002, "科目已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
