package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
)

// StaffRepository 教职工数据访问接口
type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	GetByUserID(ctx context.Context, userID string) (*model.Staff, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Staff, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.Staff, error)
	Update(ctx context.Context, staff *model.Staff) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) GetByUserID(ctx context.Context, userID string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where(refEq("user_id"), refArg(userID)).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Staff, error) {
	if len(ids) == 0 {
		return []model.Staff{}, nil
	}
	var staff []model.Staff
	err := r.db.WithContext(ctx).
		Where("staff_id IN ?", ids).
		Find(&staff).Error
	return staff, err
}

func (r *staffRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.Staff, error) {
	var staff []model.Staff
	err := r.db.WithContext(ctx).
		Where(refEq("department_id"), refArg(departmentID)).
		Order("name ASC").
		Find(&staff).Error
	return staff, err
}

func (r *staffRepo) Update(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *staffRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("staff_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
