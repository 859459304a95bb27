package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/resolver"
)

func setupTestTaskService(t *testing.T, opts resolver.Options) (TaskService, *mockRepos) {
	t.Helper()
	repo, m := newMockRepos()
	seedFeedbackScenario(t, m)
	return NewTaskService(repo, opts, zap.NewNop()), m
}

func TestResolve_Strict(t *testing.T) {
	svc, _ := setupTestTaskService(t, resolver.Options{})

	tasks, err := svc.Resolve(context.Background(), idStudent)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("期望 3 条任务，实际: %d", len(tasks))
	}

	want := []string{idAssignA, idAssignB, "99999999-9999-4999-8999-99999999999d"}
	for i, id := range want {
		if tasks[i].AssignmentID != id {
			t.Errorf("第 %d 条期望分配 %s，实际: %s", i, id, tasks[i].AssignmentID)
		}
	}
	for _, task := range tasks {
		if task.AssignmentID == idAssignOld {
			t.Error("其他学年的分配不应出现")
		}
		if task.AcademicYearID == nil || *task.AcademicYearID != idYear1 {
			t.Errorf("期望有效学年为学年1，实际: %v", task.AcademicYearID)
		}
	}
}

func TestResolve_LegacyUppercaseRefs(t *testing.T) {
	repo, m := newMockRepos()
	seedLegacyCaseScenario(t, m)
	svc := NewTaskService(repo, resolver.Options{}, zap.NewNop())

	tasks, err := svc.Resolve(context.Background(), idStudentLegacy)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("期望 1 条任务，实际: %d", len(tasks))
	}
	task := tasks[0]
	if task.AssignmentID != idAssignLegacy || task.SubjectID != idSubMath || task.SubjectName != "数学" {
		t.Errorf("任务内容不正确: %+v", task)
	}
	if len(task.Staff) != 1 || task.Staff[0].StaffID != idStaffA || task.Staff[0].Name != "教师A" {
		t.Errorf("期望教师A，实际: %+v", task.Staff)
	}
	if task.AcademicYearID == nil || *task.AcademicYearID != idYearLegacy {
		t.Errorf("期望有效学年为规范化的 %s，实际: %v", idYearLegacy, task.AcademicYearID)
	}
}

func TestResolve_GroupBySubject(t *testing.T) {
	svc, _ := setupTestTaskService(t, resolver.Options{GroupBySubject: true})

	tasks, err := svc.Resolve(context.Background(), idStudent)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("期望 2 条分组任务，实际: %d", len(tasks))
	}
	if tasks[0].SubjectName != "数学" || len(tasks[0].Staff) != 2 {
		t.Errorf("期望数学任务含 2 位教师，实际: %+v", tasks[0])
	}
}

func TestResolve_Ineligible(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(m *mockRepos)
	}{
		{"院系未开启评教", func(m *mockRepos) { m.depts.departments[idDeptCS].IsFeedbackActive = false }},
		{"院系引用为字面量 null", func(m *mockRepos) { m.users.users[idStudent].DepartmentID = model.StrPtr("null") }},
		{"院系引用非法", func(m *mockRepos) { m.users.users[idStudent].DepartmentID = model.StrPtr("64f1c2a9e4b0a1b2c3d4e5f6") }},
		{"院系不存在", func(m *mockRepos) { delete(m.depts.departments, idDeptCS) }},
		{"非学生", func(m *mockRepos) { m.users.users[idStudent].Role = model.RoleFaculty }},
		{"用户不存在", func(m *mockRepos) { delete(m.users.users, idStudent) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := setupTestTaskService(t, resolver.Options{})
			tc.mutate(m)

			tasks, err := svc.Resolve(context.Background(), idStudent)
			if err != nil {
				t.Fatalf("期望无错误，实际: %v", err)
			}
			if tasks == nil || len(tasks) != 0 {
				t.Errorf("期望空列表，实际: %v", tasks)
			}
		})
	}
}

func TestResolve_StorageError(t *testing.T) {
	svc, m := setupTestTaskService(t, resolver.Options{})
	m.links.err = errors.New("connection reset")

	if _, err := svc.Resolve(context.Background(), idStudent); err == nil {
		t.Error("期望存储层错误向上返回")
	}
}

func TestListMine_FiltersSubmitted(t *testing.T) {
	svc, m := setupTestTaskService(t, resolver.Options{})
	m.feedback.Create(context.Background(), &model.Feedback{StudentID: idStudent, AssignmentID: idAssignA})

	resp, err := svc.ListMine(context.Background(), idStudent)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Total != 3 || resp.Completed != 1 {
		t.Errorf("期望 Total=3 Completed=1，实际: %d/%d", resp.Total, resp.Completed)
	}
	if len(resp.Tasks) != 2 {
		t.Fatalf("期望 2 条待评任务，实际: %d", len(resp.Tasks))
	}
	for _, task := range resp.Tasks {
		if task.AssignmentID == idAssignA {
			t.Error("已提交的分配不应出现在待评列表")
		}
	}
}

func TestListMine_GroupedPartial(t *testing.T) {
	svc, m := setupTestTaskService(t, resolver.Options{GroupBySubject: true})
	m.feedback.Create(context.Background(), &model.Feedback{StudentID: idStudent, AssignmentID: idAssignA})

	resp, err := svc.ListMine(context.Background(), idStudent)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(resp.Tasks) != 2 {
		t.Fatalf("期望 2 条分组任务，实际: %d", len(resp.Tasks))
	}
	math := resp.Tasks[0]
	if len(math.Staff) != 1 || math.Staff[0].ID != idStaffB {
		t.Errorf("期望数学任务只剩教师B，实际: %+v", math.Staff)
	}
	if math.AssignmentID != idAssignB {
		t.Errorf("期望主分配为 %s，实际: %s", idAssignB, math.AssignmentID)
	}
}

func TestListMine_Ineligible(t *testing.T) {
	svc, m := setupTestTaskService(t, resolver.Options{})
	m.depts.departments[idDeptCS].IsFeedbackActive = false

	resp, err := svc.ListMine(context.Background(), idStudent)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(resp.Tasks) != 0 || resp.Total != 0 {
		t.Errorf("期望空结果，实际: %+v", resp)
	}
}
