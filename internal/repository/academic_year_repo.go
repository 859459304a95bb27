package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
)

// AcademicYearRepository 学年数据访问接口
type AcademicYearRepository interface {
	Create(ctx context.Context, year *model.AcademicYear) error
	GetByID(ctx context.Context, id string) (*model.AcademicYear, error)
	List(ctx context.Context) ([]model.AcademicYear, error)
	Update(ctx context.Context, year *model.AcademicYear) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type academicYearRepo struct {
	db *gorm.DB
}

// NewAcademicYearRepo 创建 AcademicYearRepository 实例
func NewAcademicYearRepo(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepo{db: db}
}

func (r *academicYearRepo) Create(ctx context.Context, year *model.AcademicYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

func (r *academicYearRepo) GetByID(ctx context.Context, id string) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("academic_year_id = ?", id).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) List(ctx context.Context) ([]model.AcademicYear, error) {
	var years []model.AcademicYear
	err := r.db.WithContext(ctx).
		Order("start_date DESC NULLS LAST, name ASC").
		Find(&years).Error
	return years, err
}

func (r *academicYearRepo) Update(ctx context.Context, year *model.AcademicYear) error {
	return r.db.WithContext(ctx).Save(year).Error
}

func (r *academicYearRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Where("academic_year_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
