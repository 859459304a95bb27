package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/resolver"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// TaskService 学生评教任务
type TaskService interface {
	// Resolve 计算学生的全部评教任务（不考虑是否已提交）
	//
	// 学生不存在、非学生、无院系、院系未开启评教时返回空列表而非错误；
	// 仅存储层错误会向上返回。
	Resolve(ctx context.Context, userID string) ([]resolver.Task, error)
	// ListMine 返回尚未提交的任务与完成进度
	ListMine(ctx context.Context, userID string) (*dto.TaskListResponse, error)
}

type taskService struct {
	repo   *repository.Repository
	opts   resolver.Options
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, opts resolver.Options, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, opts: opts, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Resolve 查询边界
// ═══════════════════════════════════════════════════════════
//
//  1. 学生
//  2. 院系（不存在 / 未开启评教 → 空）
//  3. 院系关联（按 department_id）
//  4. 任课分配（按课程集合）+ 课程（按 ID 集合）+ 教职工姓名
//
// 仅把 refid 校验过的 ID 传给存储层。

func (s *taskService) Resolve(ctx context.Context, userID string) ([]resolver.Task, error) {
	empty := []resolver.Task{}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return empty, nil
		}
		return nil, err
	}
	if !user.IsStudent() {
		return empty, nil
	}

	deptID, ok, err := refid.ParsePtr(user.DepartmentID)
	if err != nil || !ok {
		if err != nil {
			s.logger.Warn("学生院系引用非法", zap.String("user_id", userID), zap.String("department_id", model.StrVal(user.DepartmentID)))
		}
		return empty, nil
	}

	dept, err := s.repo.Department.GetByID(ctx, deptID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return empty, nil
		}
		return nil, err
	}
	if _, ok := resolver.Eligible(user, dept); !ok {
		return empty, nil
	}

	links, err := s.repo.DepartmentSubject.ListByDepartment(ctx, deptID.String())
	if err != nil {
		return nil, err
	}
	subjectIDs := resolver.LinkedSubjectIDs(deptID, links)
	if len(subjectIDs) == 0 {
		return empty, nil
	}

	ids := subjectIDs.Strings()
	assignments, err := s.repo.FacultyAssignment.ListBySubjectIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	subjects, err := s.repo.Subject.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	staffIDs := make(refid.Set)
	for _, a := range assignments {
		if id, err := refid.Parse(a.StaffID); err == nil {
			staffIDs.Add(id)
		}
	}
	staff, err := s.repo.Staff.ListByIDs(ctx, staffIDs.Strings())
	if err != nil {
		return nil, err
	}

	return resolver.Resolve(resolver.Input{
		Student:     user,
		Department:  dept,
		Links:       links,
		Assignments: assignments,
		Subjects:    subjects,
		Staff:       staff,
	}, s.opts), nil
}

// ────────────────────── ListMine ──────────────────────

func (s *taskService) ListMine(ctx context.Context, userID string) (*dto.TaskListResponse, error) {
	tasks, err := s.Resolve(ctx, userID)
	if err != nil {
		s.logger.Error("解析评教任务失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	var all []string
	for i := range tasks {
		all = append(all, tasks[i].AssignmentIDs...)
	}
	submittedIDs, err := s.repo.Feedback.SubmittedAssignmentIDs(ctx, userID, all)
	if err != nil {
		s.logger.Error("查询已提交评教失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	submitted := make(map[string]bool, len(submittedIDs))
	for _, id := range submittedIDs {
		submitted[id] = true
	}

	// 分组任务只移除已评教师；全部评完的任务整体移除
	pending := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		if resp, ok := toPendingTask(&tasks[i], submitted); ok {
			pending = append(pending, resp)
		}
	}

	return &dto.TaskListResponse{
		Tasks:     pending,
		Total:     len(all),
		Completed: len(submitted),
	}, nil
}

func toPendingTask(t *resolver.Task, submitted map[string]bool) (dto.TaskResponse, bool) {
	resp := dto.TaskResponse{
		SubjectID:      t.SubjectID,
		SubjectName:    t.SubjectName,
		SubjectCode:    t.SubjectCode,
		AssignmentIDs:  []string{},
		StaffIDs:       []string{},
		Staff:          []dto.TaskStaff{},
		AcademicYearID: t.AcademicYearID,
	}
	for _, st := range t.Staff {
		if submitted[st.AssignmentID] {
			continue
		}
		resp.AssignmentIDs = append(resp.AssignmentIDs, st.AssignmentID)
		resp.StaffIDs = append(resp.StaffIDs, st.StaffID)
		resp.Staff = append(resp.Staff, dto.TaskStaff{
			ID:           st.StaffID,
			Name:         st.Name,
			AssignmentID: st.AssignmentID,
		})
	}
	if len(resp.AssignmentIDs) == 0 {
		return resp, false
	}
	resp.AssignmentID = resp.AssignmentIDs[0]
	return resp, true
}
