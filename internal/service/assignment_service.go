package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// ── 任课分配业务错误 ──

var (
	ErrAssignmentNotFound = errors.New("任课分配不存在")
	ErrAssignmentExists   = errors.New("该教职工已分配到此课程的同一学年")
	ErrAssignmentNoDept   = errors.New("无法确定任课分配所属院系")
)

// AssignmentService 任课分配业务接口
type AssignmentService interface {
	Create(ctx context.Context, req *dto.CreateAssignmentRequest, caller Caller) (*dto.AssignmentResponse, error)
	List(ctx context.Context, req *dto.AssignmentListRequest, caller Caller) ([]dto.AssignmentResponse, error)
	Delete(ctx context.Context, id string, caller Caller) error
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest, caller Caller) (*dto.AssignmentResponse, error) {
	canonicalRefs(&req.StaffID, &req.SubjectID, req.AcademicYearID, req.DepartmentID)
	staff, err := s.repo.Staff.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Subject.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	if err := ensureAcademicYear(ctx, s.repo, req.AcademicYearID); err != nil {
		return nil, err
	}

	// 省略院系时取教职工所属院系
	deptID := req.DepartmentID
	if deptID == nil && !refid.IsAbsent(model.StrVal(staff.DepartmentID)) {
		deptID = model.StrPtr(refid.Canonical(*staff.DepartmentID))
	}
	if deptID == nil {
		return nil, ErrAssignmentNoDept
	}
	if !caller.CanManageDepartment(*deptID) {
		return nil, ErrNoPermission
	}

	existing, err := s.repo.FacultyAssignment.ListByStaff(ctx, staff.StaffID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if refid.Same(a.SubjectID, req.SubjectID) && sameYear(a.AcademicYearID, req.AcademicYearID) {
			return nil, ErrAssignmentExists
		}
	}

	a := &model.FacultyAssignment{
		StaffID:        staff.StaffID,
		SubjectID:      req.SubjectID,
		AcademicYearID: req.AcademicYearID,
		DepartmentID:   deptID,
	}
	a.CreatedBy = &caller.UserID

	if err := s.repo.FacultyAssignment.Create(ctx, a); err != nil {
		s.logger.Error("创建任课分配失败", zap.Error(err))
		return nil, err
	}
	return toAssignmentResponse(a), nil
}

// ────────────────────── List ──────────────────────

func (s *assignmentService) List(ctx context.Context, req *dto.AssignmentListRequest, caller Caller) ([]dto.AssignmentResponse, error) {
	var list []model.FacultyAssignment
	var err error

	switch {
	case req.StaffID != "":
		staff, serr := s.repo.Staff.GetByID(ctx, req.StaffID)
		if serr != nil {
			if errors.Is(serr, gorm.ErrRecordNotFound) {
				return nil, ErrStaffNotFound
			}
			return nil, serr
		}
		if !caller.CanManageDepartment(model.StrVal(staff.DepartmentID)) && staff.UserID != caller.UserID {
			return nil, ErrNoPermission
		}
		list, err = s.repo.FacultyAssignment.ListByStaff(ctx, req.StaffID)
	default:
		deptID := req.DepartmentID
		if !caller.IsAdmin() {
			deptID = caller.DepartmentID
		}
		if deptID == "" || !caller.CanManageDepartment(deptID) {
			return nil, ErrNoPermission
		}
		list, err = s.repo.FacultyAssignment.ListByDepartment(ctx, deptID)
	}
	if err != nil {
		s.logger.Error("查询任课分配失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAssignmentResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *assignmentService) Delete(ctx context.Context, id string, caller Caller) error {
	a, err := s.repo.FacultyAssignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if !caller.CanManageDepartment(model.StrVal(a.DepartmentID)) {
		return ErrNoPermission
	}
	if err := s.repo.FacultyAssignment.Delete(ctx, id); err != nil {
		s.logger.Error("删除任课分配失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// sameYear 两个可空学年引用是否相同；均缺失视为相同
func sameYear(a, b *string) bool {
	x, okA, errA := refid.ParsePtr(a)
	y, okB, errB := refid.ParsePtr(b)
	if errA != nil || errB != nil {
		return model.StrVal(a) == model.StrVal(b)
	}
	return okA == okB && x == y
}

func toAssignmentResponse(a *model.FacultyAssignment) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ID:             a.AssignmentID,
		StaffID:        a.StaffID,
		SubjectID:      a.SubjectID,
		AcademicYearID: a.AcademicYearID,
		DepartmentID:   a.DepartmentID,
	}
}
