package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	pkgerrors "github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/errors"
)

// ── 教职工模块业务错误 ──

var (
	ErrStaffNotFound       = errors.New("教职工不存在")
	ErrStaffHasAssignments = errors.New("教职工存在任课分配，无法删除")
)

// StaffService 教职工业务接口
type StaffService interface {
	// Create 同时创建 FACULTY 账号与教职工档案，返回临时密码
	Create(ctx context.Context, req *dto.CreateStaffRequest, caller Caller) (*dto.CreateStaffResponse, error)
	GetByID(ctx context.Context, id string, caller Caller) (*dto.StaffResponse, error)
	ListByDepartment(ctx context.Context, departmentID string, caller Caller) ([]dto.StaffResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStaffRequest, caller Caller) (*dto.StaffResponse, error)
	Delete(ctx context.Context, id string, caller Caller) error
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *staffService) Create(ctx context.Context, req *dto.CreateStaffRequest, caller Caller) (*dto.CreateStaffResponse, error) {
	canonicalRefs(&req.DepartmentID)
	if !caller.CanManageDepartment(req.DepartmentID) {
		return nil, ErrNoPermission
	}
	if _, err := s.repo.Department.GetByID(ctx, req.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tempPassword, err := generateTempPassword(10)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	deptID := req.DepartmentID
	user := &model.User{
		Name:               req.Name,
		Email:              email,
		PasswordHash:       string(hash),
		Role:               model.RoleFaculty,
		DepartmentID:       &deptID,
		MustChangePassword: true,
	}
	user.CreatedBy = &caller.UserID

	staff := &model.Staff{
		Name:         req.Name,
		Email:        email,
		Designation:  req.Designation,
		DepartmentID: &deptID,
	}
	staff.CreatedBy = &caller.UserID

	// 账号与档案在同一事务中创建
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.User.Create(ctx, user); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return ErrEmailExists
			}
			s.logger.Error("创建教职工账号失败", zap.Error(err))
			return err
		}
		staff.UserID = user.UserID
		if err := txRepo.Staff.Create(ctx, staff); err != nil {
			s.logger.Error("创建教职工档案失败", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateStaffResponse{
		Staff:        *toStaffResponse(staff),
		TempPassword: tempPassword,
	}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *staffService) GetByID(ctx context.Context, id string, caller Caller) (*dto.StaffResponse, error) {
	staff, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanManageDepartment(model.StrVal(staff.DepartmentID)) && staff.UserID != caller.UserID {
		return nil, ErrNoPermission
	}
	return toStaffResponse(staff), nil
}

// ────────────────────── ListByDepartment ──────────────────────

func (s *staffService) ListByDepartment(ctx context.Context, departmentID string, caller Caller) ([]dto.StaffResponse, error) {
	if !caller.IsAdmin() {
		departmentID = caller.DepartmentID
	}
	if departmentID == "" {
		return nil, ErrNoPermission
	}

	list, err := s.repo.Staff.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询教职工失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		result = append(result, *toStaffResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *staffService) Update(ctx context.Context, id string, req *dto.UpdateStaffRequest, caller Caller) (*dto.StaffResponse, error) {
	canonicalRefs(req.DepartmentID)
	staff, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanManageDepartment(model.StrVal(staff.DepartmentID)) {
		return nil, ErrNoPermission
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.Designation != nil {
		staff.Designation = *req.Designation
	}
	if req.DepartmentID != nil {
		// HOD 不能把教职工调出本院系
		if !caller.CanManageDepartment(*req.DepartmentID) {
			return nil, ErrNoPermission
		}
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, err
		}
		staff.DepartmentID = req.DepartmentID
	}
	staff.UpdatedBy = &caller.UserID

	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		s.logger.Error("更新教职工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toStaffResponse(staff), nil
}

// ────────────────────── Delete ──────────────────────

func (s *staffService) Delete(ctx context.Context, id string, caller Caller) error {
	staff, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanManageDepartment(model.StrVal(staff.DepartmentID)) {
		return ErrNoPermission
	}

	assignments, err := s.repo.FacultyAssignment.ListByStaff(ctx, id)
	if err != nil {
		return err
	}
	if len(assignments) > 0 {
		return ErrStaffHasAssignments
	}

	if err := s.repo.Staff.Delete(ctx, id, caller.UserID); err != nil {
		s.logger.Error("删除教职工失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *staffService) load(ctx context.Context, id string) (*model.Staff, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询教职工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return staff, nil
}

func toStaffResponse(s *model.Staff) *dto.StaffResponse {
	return &dto.StaffResponse{
		ID:           s.StaffID,
		UserID:       s.UserID,
		Name:         s.Name,
		Email:        s.Email,
		Designation:  s.Designation,
		DepartmentID: s.DepartmentID,
	}
}
