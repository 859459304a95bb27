package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/response"
)

// AssignmentHandler 任课分配 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListAssignments GET /api/v1/assignments?departmentId=&staffId=
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	list, err := h.assignmentSvc.List(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateAssignment POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	a, err := h.assignmentSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.Created(c, a)
}

// DeleteAssignment DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), id, caller); err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 17001, "任课分配不存在")
	case errors.Is(err, service.ErrAssignmentExists):
		response.Conflict(c, 17002, "任课分配已存在")
	case errors.Is(err, service.ErrAssignmentNoDept):
		response.BadRequest(c, 17003, "无法确定任课分配所属院系")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 17004, "教职工不存在")
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 17005, "课程不存在")
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.NotFound(c, 17006, "学年不存在")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权操作")
	default:
		response.InternalError(c)
	}
}
