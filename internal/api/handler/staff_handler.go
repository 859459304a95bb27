package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/response"
)

// StaffHandler 教职工模块 HTTP 处理器
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler 创建 StaffHandler
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// ListStaff GET /api/v1/staff?departmentId=
func (h *StaffHandler) ListStaff(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.StaffListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	list, err := h.staffSvc.ListByDepartment(c.Request.Context(), req.DepartmentID, caller)
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetStaff GET /api/v1/staff/:id
func (h *StaffHandler) GetStaff(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	staff, err := h.staffSvc.GetByID(c.Request.Context(), id, caller)
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, staff)
}

// CreateStaff 创建教职工及其 FACULTY 账号
// POST /api/v1/staff
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	result, err := h.staffSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateStaff PUT /api/v1/staff/:id
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	staff, err := h.staffSvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, staff)
}

// DeleteStaff DELETE /api/v1/staff/:id
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	if err := h.staffSvc.Delete(c.Request.Context(), id, caller); err != nil {
		h.handleStaffError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *StaffHandler) handleStaffError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 16001, "教职工不存在")
	case errors.Is(err, service.ErrStaffHasAssignments):
		response.BadRequest(c, 16002, "教职工存在任课分配，无法删除")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 16003, "邮箱已被使用")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 16004, "院系不存在")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权操作")
	default:
		response.InternalError(c)
	}
}
