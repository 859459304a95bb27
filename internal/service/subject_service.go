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

// ── 课程模块业务错误 ──

var (
	ErrSubjectNotFound = errors.New("课程不存在")
	ErrSubjectInUse    = errors.New("课程存在任课分配，无法删除")
)

// SubjectService 课程业务接口
type SubjectService interface {
	Create(ctx context.Context, req *dto.CreateSubjectRequest, caller Caller) (*dto.SubjectResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SubjectResponse, error)
	// List departmentID 为空时返回全部课程（HOD 强制为本院系）
	List(ctx context.Context, departmentID string, caller Caller) ([]dto.SubjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest, caller Caller) (*dto.SubjectResponse, error)
	Delete(ctx context.Context, id string, caller Caller) error
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *subjectService) Create(ctx context.Context, req *dto.CreateSubjectRequest, caller Caller) (*dto.SubjectResponse, error) {
	canonicalRefs(req.DepartmentID, req.AcademicYearID)
	// HOD 创建的课程必须关联到本院系
	if !caller.IsAdmin() {
		if req.DepartmentID == nil || !caller.CanManageDepartment(*req.DepartmentID) {
			return nil, ErrNoPermission
		}
	}
	if req.DepartmentID != nil {
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
	}
	if err := ensureAcademicYear(ctx, s.repo, req.AcademicYearID); err != nil {
		return nil, err
	}

	subject := &model.Subject{
		Name:           req.Name,
		Code:           req.Code,
		Semester:       req.Semester,
		AcademicYearID: req.AcademicYearID,
	}
	subject.CreatedBy = &caller.UserID
	subject.UpdatedBy = &caller.UserID

	// 课程与院系关联在同一事务中创建
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Subject.Create(ctx, subject); err != nil {
			s.logger.Error("创建课程失败", zap.Error(err))
			return err
		}
		if req.DepartmentID == nil {
			return nil
		}
		link := &model.DepartmentSubject{
			DepartmentID:   *req.DepartmentID,
			SubjectID:      subject.SubjectID,
			AcademicYearID: req.AcademicYearID,
		}
		link.CreatedBy = &caller.UserID
		if err := txRepo.DepartmentSubject.Create(ctx, link); err != nil {
			s.logger.Error("创建院系课程关联失败", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toSubjectResponse(subject), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *subjectService) GetByID(ctx context.Context, id string) (*dto.SubjectResponse, error) {
	subject, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

// ────────────────────── List ──────────────────────

func (s *subjectService) List(ctx context.Context, departmentID string, caller Caller) ([]dto.SubjectResponse, error) {
	if !caller.IsAdmin() {
		departmentID = caller.DepartmentID
		if departmentID == "" {
			return nil, ErrNoPermission
		}
	}

	var subjects []model.Subject
	var err error
	if departmentID == "" {
		subjects, err = s.repo.Subject.List(ctx)
	} else {
		subjects, err = s.listByDepartment(ctx, departmentID)
	}
	if err != nil {
		s.logger.Error("列出课程失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, *toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

// listByDepartment 经院系关联取课程；非法的 subject_id 被忽略
func (s *subjectService) listByDepartment(ctx context.Context, departmentID string) ([]model.Subject, error) {
	links, err := s.repo.DepartmentSubject.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	set := make(refid.Set)
	for _, l := range links {
		if id, err := refid.Parse(l.SubjectID); err == nil {
			set.Add(id)
		}
	}
	return s.repo.Subject.ListByIDs(ctx, set.Strings())
}

// ────────────────────── Update ──────────────────────

func (s *subjectService) Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest, caller Caller) (*dto.SubjectResponse, error) {
	canonicalRefs(req.AcademicYearID)
	subject, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, id, caller); err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Code != nil {
		subject.Code = *req.Code
	}
	if req.Semester != nil {
		subject.Semester = *req.Semester
	}
	if req.AcademicYearID != nil {
		if err := ensureAcademicYear(ctx, s.repo, req.AcademicYearID); err != nil {
			return nil, err
		}
		subject.AcademicYearID = req.AcademicYearID
	}
	subject.UpdatedBy = &caller.UserID

	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

// ────────────────────── Delete ──────────────────────

func (s *subjectService) Delete(ctx context.Context, id string, caller Caller) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.authorize(ctx, id, caller); err != nil {
		return err
	}

	assignments, err := s.repo.FacultyAssignment.ListBySubjectIDs(ctx, []string{id})
	if err != nil {
		return err
	}
	if len(assignments) > 0 {
		return ErrSubjectInUse
	}

	if err := s.repo.Subject.Delete(ctx, id, caller.UserID); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *subjectService) load(ctx context.Context, id string) (*model.Subject, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return subject, nil
}

// authorize HOD 仅可修改关联到本院系的课程
func (s *subjectService) authorize(ctx context.Context, subjectID string, caller Caller) error {
	if caller.IsAdmin() {
		return nil
	}
	links, err := s.repo.DepartmentSubject.ListBySubject(ctx, subjectID)
	if err != nil {
		return err
	}
	for _, l := range links {
		if caller.CanManageDepartment(l.DepartmentID) {
			return nil
		}
	}
	return ErrNoPermission
}

func toSubjectResponse(s *model.Subject) *dto.SubjectResponse {
	return &dto.SubjectResponse{
		ID:             s.SubjectID,
		Name:           s.Name,
		Code:           s.Code,
		Semester:       s.Semester,
		AcademicYearID: s.AcademicYearID,
	}
}
