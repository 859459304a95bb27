package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 评教汇总与导出 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// AssignmentSummary GET /api/v1/reports/assignments/:id
func (h *ReportHandler) AssignmentSummary(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	report, err := h.reportSvc.AssignmentSummary(c.Request.Context(), id, caller)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, report)
}

// DepartmentSummary GET /api/v1/reports/departments/:id
func (h *ReportHandler) DepartmentSummary(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	report, err := h.reportSvc.DepartmentSummary(c.Request.Context(), id, caller)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, report)
}

// ExportDepartment 下载院系评教汇总 Excel
// GET /api/v1/reports/departments/:id/export
func (h *ReportHandler) ExportDepartment(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.reportSvc.ExportDepartment(c.Request.Context(), id, caller)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.File(c, filename, xlsxContentType, buf.Bytes())
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 19001, "任课分配不存在")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 19002, "院系不存在")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权操作")
	case errors.Is(err, service.ErrReportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
