package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
)

// FacultyAssignmentRepository 任课分配数据访问接口
type FacultyAssignmentRepository interface {
	Create(ctx context.Context, a *model.FacultyAssignment) error
	GetByID(ctx context.Context, id string) (*model.FacultyAssignment, error)
	// ListBySubjectIDs 调用方保证 subjectIDs 均为合法引用
	ListBySubjectIDs(ctx context.Context, subjectIDs []string) ([]model.FacultyAssignment, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.FacultyAssignment, error)
	ListByStaff(ctx context.Context, staffID string) ([]model.FacultyAssignment, error)
	Delete(ctx context.Context, id string) error
}

type facultyAssignmentRepo struct {
	db *gorm.DB
}

// NewFacultyAssignmentRepo 创建 FacultyAssignmentRepository 实例
func NewFacultyAssignmentRepo(db *gorm.DB) FacultyAssignmentRepository {
	return &facultyAssignmentRepo{db: db}
}

func (r *facultyAssignmentRepo) Create(ctx context.Context, a *model.FacultyAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *facultyAssignmentRepo) GetByID(ctx context.Context, id string) (*model.FacultyAssignment, error) {
	var a model.FacultyAssignment
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *facultyAssignmentRepo) ListBySubjectIDs(ctx context.Context, subjectIDs []string) ([]model.FacultyAssignment, error) {
	if len(subjectIDs) == 0 {
		return []model.FacultyAssignment{}, nil
	}
	var list []model.FacultyAssignment
	err := r.db.WithContext(ctx).
		Where(refIn("subject_id"), refArgs(subjectIDs)).
		Find(&list).Error
	return list, err
}

// ListByDepartment 按冗余 department_id 查询，仅用于管理端展示
func (r *facultyAssignmentRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.FacultyAssignment, error) {
	var list []model.FacultyAssignment
	err := r.db.WithContext(ctx).
		Where(refEq("department_id"), refArg(departmentID)).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *facultyAssignmentRepo) ListByStaff(ctx context.Context, staffID string) ([]model.FacultyAssignment, error) {
	var list []model.FacultyAssignment
	err := r.db.WithContext(ctx).
		Where(refEq("staff_id"), refArg(staffID)).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *facultyAssignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		Delete(&model.FacultyAssignment{}).Error
}
