package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/response"
)

// AcademicYearHandler 学年模块 HTTP 处理器
type AcademicYearHandler struct {
	yearSvc service.AcademicYearService
}

// NewAcademicYearHandler 创建 AcademicYearHandler
func NewAcademicYearHandler(yearSvc service.AcademicYearService) *AcademicYearHandler {
	return &AcademicYearHandler{yearSvc: yearSvc}
}

// ListAcademicYears GET /api/v1/academic-years
func (h *AcademicYearHandler) ListAcademicYears(c *gin.Context) {
	years, err := h.yearSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": years})
}

// GetAcademicYear GET /api/v1/academic-years/:id
func (h *AcademicYearHandler) GetAcademicYear(c *gin.Context) {
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	year, err := h.yearSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAcademicYearError(c, err)
		return
	}
	response.OK(c, year)
}

// CreateAcademicYear POST /api/v1/academic-years
func (h *AcademicYearHandler) CreateAcademicYear(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	year, err := h.yearSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAcademicYearError(c, err)
		return
	}
	response.Created(c, year)
}

// UpdateAcademicYear PUT /api/v1/academic-years/:id
func (h *AcademicYearHandler) UpdateAcademicYear(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	year, err := h.yearSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleAcademicYearError(c, err)
		return
	}
	response.OK(c, year)
}

// DeleteAcademicYear DELETE /api/v1/academic-years/:id
func (h *AcademicYearHandler) DeleteAcademicYear(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	if err := h.yearSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleAcademicYearError(c, err)
		return
	}
	response.OK(c, nil)
}

// ExportCalendar 下载学年日历（.ics）
// GET /api/v1/academic-years/:id/calendar
func (h *AcademicYearHandler) ExportCalendar(c *gin.Context) {
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.yearSvc.ExportCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleAcademicYearError(c, err)
		return
	}
	response.File(c, filename, "text/calendar; charset=utf-8", data)
}

func (h *AcademicYearHandler) handleAcademicYearError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.NotFound(c, 14001, "学年不存在")
	case errors.Is(err, service.ErrAcademicYearDateRange):
		response.BadRequest(c, 14002, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrAcademicYearInvalidDate):
		response.BadRequest(c, 14003, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrAcademicYearNoDates):
		response.BadRequest(c, 14004, "学年未设置任何日期")
	default:
		response.InternalError(c)
	}
}
