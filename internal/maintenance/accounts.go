package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// MinPasswordLength 管理员初始密码最小长度（与修改密码校验一致）
const MinPasswordLength = 8

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrDepartmentNotFound = errors.New("院系不存在")
	ErrEmailTaken         = errors.New("邮箱已被非管理员账号使用")
	ErrPasswordTooShort   = fmt.Errorf("密码至少 %d 位", MinPasswordLength)
)

// PromoteHOD 将用户设为院系负责人：角色改为 HOD、归属该院系，并写入 departments.hod_user_id
func (r *Runner) PromoteHOD(ctx context.Context, email, departmentID string, dryRun bool) (*Result, error) {
	return r.record(ctx, StepPromoteHOD, dryRun, func(ctx context.Context) (*Result, error) {
		res := newResult()
		deptID, err := refid.Parse(departmentID)
		if err != nil {
			return res, fmt.Errorf("院系 ID 非法: %w", err)
		}

		user, err := r.repo.User.GetByEmail(ctx, strings.TrimSpace(email))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return res, ErrUserNotFound
			}
			return res, err
		}
		dept, err := r.repo.Department.GetByID(ctx, deptID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return res, ErrDepartmentNotFound
			}
			return res, err
		}
		res.Details["userId"] = user.UserID
		res.Details["departmentId"] = dept.DepartmentID

		already := user.Role == model.RoleHOD &&
			model.StrVal(user.DepartmentID) == dept.DepartmentID &&
			model.StrVal(dept.HODUserID) == user.UserID
		if already {
			res.Details["unchanged"] = true
			return res, nil
		}
		res.Affected = 1
		if dryRun {
			return res, nil
		}

		user.Role = model.RoleHOD
		user.DepartmentID = model.StrPtr(dept.DepartmentID)
		err = r.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
			if err := txRepo.User.Update(ctx, user); err != nil {
				return fmt.Errorf("更新用户失败: %w", err)
			}
			if err := txRepo.Department.SetHOD(ctx, dept.DepartmentID, user.UserID); err != nil {
				return fmt.Errorf("设置院系负责人失败: %w", err)
			}
			return nil
		})
		return res, err
	})
}

// AddAdmin 创建管理员账号；同邮箱管理员已存在时不做修改
func (r *Runner) AddAdmin(ctx context.Context, email, name, password string, dryRun bool) (*Result, error) {
	return r.record(ctx, StepAddAdmin, dryRun, func(ctx context.Context) (*Result, error) {
		res := newResult()
		email = strings.ToLower(strings.TrimSpace(email))
		res.Details["email"] = email
		if len(password) < MinPasswordLength {
			return res, ErrPasswordTooShort
		}

		existing, err := r.repo.User.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.Role == model.RoleAdmin:
			res.Details["unchanged"] = true
			return res, nil
		case err == nil:
			return res, ErrEmailTaken
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return res, err
		}

		res.Affected = 1
		if dryRun {
			return res, nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return res, fmt.Errorf("密码加密失败: %w", err)
		}
		user := &model.User{
			Name:         strings.TrimSpace(name),
			Email:        email,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
		}
		if err := r.repo.User.Create(ctx, user); err != nil {
			return res, fmt.Errorf("创建管理员失败: %w", err)
		}
		res.Details["userId"] = user.UserID
		return res, nil
	})
}
