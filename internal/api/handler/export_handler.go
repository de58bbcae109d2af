package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"yks-planner/backend/internal/service"
	"yks-planner/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportExcel 导出周计划为 Excel
// GET /api/v1/export/plan.xlsx
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), userID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeXLSX, filename, buf.Bytes())
}

// ExportICS 导出周计划为 iCalendar
// GET /api/v1/export/plan.ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportICS(c.Request.Context(), userID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeICS, filename, buf.Bytes())
}

// writeDownload 设置下载响应头并写入文件内容
func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoPlan):
		response.NotFound(c, 17001, "暂无可导出的周计划")
	default:
		response.InternalError(c)
	}
}
