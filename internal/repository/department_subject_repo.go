package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
)

// DepartmentSubjectRepository 院系-课程关联数据访问接口
type DepartmentSubjectRepository interface {
	Create(ctx context.Context, link *model.DepartmentSubject) error
	GetByID(ctx context.Context, id string) (*model.DepartmentSubject, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.DepartmentSubject, error)
	ListBySubject(ctx context.Context, subjectID string) ([]model.DepartmentSubject, error)
	Delete(ctx context.Context, id string) error
}

type departmentSubjectRepo struct {
	db *gorm.DB
}

// NewDepartmentSubjectRepo 创建 DepartmentSubjectRepository 实例
func NewDepartmentSubjectRepo(db *gorm.DB) DepartmentSubjectRepository {
	return &departmentSubjectRepo{db: db}
}

func (r *departmentSubjectRepo) Create(ctx context.Context, link *model.DepartmentSubject) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *departmentSubjectRepo) GetByID(ctx context.Context, id string) (*model.DepartmentSubject, error) {
	var link model.DepartmentSubject
	err := r.db.WithContext(ctx).
		Where("link_id = ?", id).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *departmentSubjectRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.DepartmentSubject, error) {
	var links []model.DepartmentSubject
	err := r.db.WithContext(ctx).
		Where(refEq("department_id"), refArg(departmentID)).
		Order("created_at ASC").
		Find(&links).Error
	return links, err
}

func (r *departmentSubjectRepo) ListBySubject(ctx context.Context, subjectID string) ([]model.DepartmentSubject, error) {
	var links []model.DepartmentSubject
	err := r.db.WithContext(ctx).
		Where(refEq("subject_id"), refArg(subjectID)).
		Find(&links).Error
	return links, err
}

func (r *departmentSubjectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("link_id = ?", id).
		Delete(&model.DepartmentSubject{}).Error
}
