package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	pkgerrors "github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/errors"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// ── 评教提交业务错误 ──

var (
	ErrFeedbackNotEligible       = errors.New("无权对该任课分配评教")
	ErrFeedbackAlreadySubmitted  = errors.New("已提交过该任课分配的评教")
	ErrFeedbackInvalidRatings    = errors.New("评分项无效")
	ErrFeedbackInvalidAssignment = errors.New("任课分配 ID 无效")
)

const (
	minScore = 1
	maxScore = 5
)

// FeedbackService 评教提交业务接口
type FeedbackService interface {
	Submit(ctx context.Context, studentID string, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error)
	ListMine(ctx context.Context, studentID string) ([]dto.FeedbackResponse, error)
}

type feedbackService struct {
	repo       *repository.Repository
	tasks      TaskService
	maxRatings int
	logger     *zap.Logger
}

// NewFeedbackService 创建 FeedbackService 实例
func NewFeedbackService(repo *repository.Repository, tasks TaskService, maxRatings int, logger *zap.Logger) FeedbackService {
	if maxRatings <= 0 {
		maxRatings = 20
	}
	return &feedbackService{repo: repo, tasks: tasks, maxRatings: maxRatings, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *feedbackService) Submit(ctx context.Context, studentID string, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error) {
	assignmentID, err := refid.Parse(req.AssignmentID)
	if err != nil {
		return nil, ErrFeedbackInvalidAssignment
	}
	if err := validateRatings(req.Ratings, s.maxRatings); err != nil {
		return nil, err
	}

	// 只能评价解析结果中的任课分配
	tasks, err := s.tasks.Resolve(ctx, studentID)
	if err != nil {
		s.logger.Error("解析评教任务失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	eligible := false
	for i := range tasks {
		for _, id := range tasks[i].AssignmentIDs {
			if id == assignmentID.String() {
				eligible = true
				break
			}
		}
	}
	if !eligible {
		return nil, ErrFeedbackNotEligible
	}

	fb := &model.Feedback{
		StudentID:    studentID,
		AssignmentID: assignmentID.String(),
		Ratings:      datatypes.NewJSONType(model.Ratings(req.Ratings)),
		Comment:      strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Feedback.Create(ctx, fb); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrFeedbackAlreadySubmitted
		}
		s.logger.Error("保存评教失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("评教已提交",
		zap.String("student_id", studentID),
		zap.String("assignment_id", fb.AssignmentID),
	)
	return toFeedbackResponse(fb), nil
}

// ────────────────────── ListMine ──────────────────────

func (s *feedbackService) ListMine(ctx context.Context, studentID string) ([]dto.FeedbackResponse, error) {
	list, err := s.repo.Feedback.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询评教记录失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.FeedbackResponse, 0, len(list))
	for i := range list {
		result = append(result, *toFeedbackResponse(&list[i]))
	}
	return result, nil
}

// validateRatings 1..max 个评分项，键非空，分值 1..5
func validateRatings(ratings map[string]int, max int) error {
	if len(ratings) == 0 || len(ratings) > max {
		return fmt.Errorf("%w: 评分项数量须在 1-%d 之间", ErrFeedbackInvalidRatings, max)
	}
	for k, v := range ratings {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: 评分项名称不能为空", ErrFeedbackInvalidRatings)
		}
		if v < minScore || v > maxScore {
			return fmt.Errorf("%w: %s 的分值须在 %d-%d 之间", ErrFeedbackInvalidRatings, k, minScore, maxScore)
		}
	}
	return nil
}

func toFeedbackResponse(fb *model.Feedback) *dto.FeedbackResponse {
	resp := &dto.FeedbackResponse{
		ID:           fb.FeedbackID,
		AssignmentID: fb.AssignmentID,
		Ratings:      fb.Ratings.Data(),
		Comment:      fb.Comment,
	}
	if !fb.SubmittedAt.IsZero() {
		resp.SubmittedAt = fb.SubmittedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
