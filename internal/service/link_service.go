package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	pkgerrors "github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/errors"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// ── 院系-课程关联业务错误 ──

var (
	ErrLinkNotFound = errors.New("院系课程关联不存在")
	ErrLinkExists   = errors.New("该课程已关联到此院系的同一学年")
)

// LinkService 院系-课程关联业务接口
type LinkService interface {
	Link(ctx context.Context, req *dto.CreateLinkRequest, caller Caller) (*dto.LinkResponse, error)
	Unlink(ctx context.Context, id string, caller Caller) error
	ListByDepartment(ctx context.Context, departmentID string, caller Caller) ([]dto.LinkResponse, error)
}

type linkService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLinkService 创建 LinkService 实例
func NewLinkService(repo *repository.Repository, logger *zap.Logger) LinkService {
	return &linkService{repo: repo, logger: logger}
}

func (s *linkService) Link(ctx context.Context, req *dto.CreateLinkRequest, caller Caller) (*dto.LinkResponse, error) {
	canonicalRefs(&req.DepartmentID, &req.SubjectID, req.AcademicYearID)
	if !caller.CanManageDepartment(req.DepartmentID) {
		return nil, ErrNoPermission
	}
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	subject, err := s.repo.Subject.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	if err := ensureAcademicYear(ctx, s.repo, req.AcademicYearID); err != nil {
		return nil, err
	}

	link := &model.DepartmentSubject{
		DepartmentID:   req.DepartmentID,
		SubjectID:      req.SubjectID,
		AcademicYearID: req.AcademicYearID,
	}
	link.CreatedBy = &caller.UserID

	if err := s.repo.DepartmentSubject.Create(ctx, link); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrLinkExists
		}
		s.logger.Error("创建院系课程关联失败", zap.Error(err))
		return nil, err
	}

	return toLinkResponse(link, subject.Name), nil
}

func (s *linkService) Unlink(ctx context.Context, id string, caller Caller) error {
	link, err := s.repo.DepartmentSubject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	if !caller.CanManageDepartment(link.DepartmentID) {
		return ErrNoPermission
	}
	if err := s.repo.DepartmentSubject.Delete(ctx, id); err != nil {
		s.logger.Error("删除院系课程关联失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *linkService) ListByDepartment(ctx context.Context, departmentID string, caller Caller) ([]dto.LinkResponse, error) {
	if !caller.CanManageDepartment(departmentID) {
		return nil, ErrNoPermission
	}
	links, err := s.repo.DepartmentSubject.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询院系课程关联失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}

	// 批量取课程名；历史数据中非法的 subject_id 仍列出，名称为空
	set := make(refid.Set)
	for _, l := range links {
		if id, err := refid.Parse(l.SubjectID); err == nil {
			set.Add(id)
		}
	}
	subjects, err := s.repo.Subject.ListByIDs(ctx, set.Strings())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(subjects))
	for _, sub := range subjects {
		names[sub.SubjectID] = sub.Name
	}

	result := make([]dto.LinkResponse, 0, len(links))
	for i := range links {
		var name string
		if id, err := refid.Parse(links[i].SubjectID); err == nil {
			name = names[id.String()]
		}
		result = append(result, *toLinkResponse(&links[i], name))
	}
	return result, nil
}

func toLinkResponse(l *model.DepartmentSubject, subjectName string) *dto.LinkResponse {
	return &dto.LinkResponse{
		ID:             l.LinkID,
		DepartmentID:   l.DepartmentID,
		SubjectID:      l.SubjectID,
		SubjectName:    subjectName,
		AcademicYearID: l.AcademicYearID,
	}
}
