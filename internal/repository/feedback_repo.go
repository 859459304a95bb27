package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
)

// FeedbackRepository 评教记录数据访问接口
type FeedbackRepository interface {
	Create(ctx context.Context, fb *model.Feedback) error
	// SubmittedAssignmentIDs 返回学生已提交评教的分配 ID（限定在 assignmentIDs 内）
	SubmittedAssignmentIDs(ctx context.Context, studentID string, assignmentIDs []string) ([]string, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Feedback, error)
	ListByAssignmentIDs(ctx context.Context, assignmentIDs []string) ([]model.Feedback, error)
}

type feedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo 创建 FeedbackRepository 实例
func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, fb *model.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

func (r *feedbackRepo) SubmittedAssignmentIDs(ctx context.Context, studentID string, assignmentIDs []string) ([]string, error) {
	if len(assignmentIDs) == 0 {
		return []string{}, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Feedback{}).
		Where("student_id = ? AND assignment_id IN ?", studentID, assignmentIDs).
		Pluck("assignment_id", &ids).Error
	return ids, err
}

func (r *feedbackRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&list).Error
	return list, err
}

func (r *feedbackRepo) ListByAssignmentIDs(ctx context.Context, assignmentIDs []string) ([]model.Feedback, error) {
	if len(assignmentIDs) == 0 {
		return []model.Feedback{}, nil
	}
	var list []model.Feedback
	err := r.db.WithContext(ctx).
		Where("assignment_id IN ?", assignmentIDs).
		Order("submitted_at ASC").
		Find(&list).Error
	return list, err
}
