package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/response"
)

// SubjectHandler 课程与院系-课程关联 HTTP 处理器
type SubjectHandler struct {
	subjectSvc service.SubjectService
	linkSvc    service.LinkService
}

// NewSubjectHandler 创建 SubjectHandler
func NewSubjectHandler(subjectSvc service.SubjectService, linkSvc service.LinkService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc, linkSvc: linkSvc}
}

// ListSubjects 课程列表；departmentId 可选（HOD 固定为本院系）
// GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.SubjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	list, err := h.subjectSvc.List(c.Request.Context(), req.DepartmentID, caller)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetSubject GET /api/v1/subjects/:id
func (h *SubjectHandler) GetSubject(c *gin.Context) {
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	subject, err := h.subjectSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, subject)
}

// CreateSubject POST /api/v1/subjects
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	subject, err := h.subjectSvc.Create(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.Created(c, subject)
}

// UpdateSubject PUT /api/v1/subjects/:id
func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	subject, err := h.subjectSvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, subject)
}

// DeleteSubject DELETE /api/v1/subjects/:id
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	if err := h.subjectSvc.Delete(c.Request.Context(), id, caller); err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── 院系-课程关联 ──

// ListLinks GET /api/v1/departments/:id/subjects
func (h *SubjectHandler) ListLinks(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	links, err := h.linkSvc.ListByDepartment(c.Request.Context(), id, caller)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, gin.H{"list": links})
}

// CreateLink POST /api/v1/department-subjects
func (h *SubjectHandler) CreateLink(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidParams(c, err)
		return
	}

	link, err := h.linkSvc.Link(c.Request.Context(), &req, caller)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.Created(c, link)
}

// DeleteLink DELETE /api/v1/department-subjects/:id
func (h *SubjectHandler) DeleteLink(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamID(c, "id")
	if !ok {
		return
	}

	if err := h.linkSvc.Unlink(c.Request.Context(), id, caller); err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleSubjectError 课程与关联共用
func (h *SubjectHandler) handleSubjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 15001, "课程不存在")
	case errors.Is(err, service.ErrSubjectInUse):
		response.BadRequest(c, 15002, "课程存在任课分配，无法删除")
	case errors.Is(err, service.ErrLinkNotFound):
		response.NotFound(c, 15003, "院系课程关联不存在")
	case errors.Is(err, service.ErrLinkExists):
		response.Conflict(c, 15004, "院系课程关联已存在")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 15005, "院系不存在")
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.NotFound(c, 15006, "学年不存在")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权操作")
	default:
		response.InternalError(c)
	}
}
