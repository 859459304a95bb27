package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/response"
)

// DepartmentHandler 院系模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// ListDepartments 获取院系列表
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	depts, err := h.deptSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": depts})
}

// GetDepartment 获取院系详情
// GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	dept, err := h.deptSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// CreateDepartment 创建院系
// POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.Created(c, dept)
}

// UpdateDepartment 更新院系（需携带 version）
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// DeleteDepartment 删除院系
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// ToggleFeedback 开启 / 关闭院系评教
// PUT /api/v1/departments/:id/feedback
func (h *DepartmentHandler) ToggleFeedback(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	var req dto.ToggleFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	dept, err := h.deptSvc.ToggleFeedback(c.Request.Context(), id, *req.Active, caller)
	if err != nil {
		h.handleDepartmentError(c, err)
		return
	}

	response.OK(c, dept)
}

// handleDepartmentError 统一处理院系模块业务错误
func (h *DepartmentHandler) handleDepartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, "院系不存在")
	case errors.Is(err, service.ErrDepartmentNameExists):
		response.Conflict(c, 13002, "院系名称已存在")
	case errors.Is(err, service.ErrDepartmentHasMembers):
		response.BadRequest(c, 13003, "院系下存在用户，无法删除")
	case errors.Is(err, service.ErrDepartmentConflict):
		response.Conflict(c, 13004, "院系已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 13005, "指定用户不存在")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权操作")
	default:
		response.InternalError(c)
	}
}
