package maintenance

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// 回填来源
const (
	SourceStaff = "staff" // 取任课教师所属院系
	SourceLinks = "links" // 课程仅被一个院系关联时取该院系
)

// BackfillChange 单条任课分配的回填结果
type BackfillChange struct {
	AssignmentID string
	DepartmentID string
}

// BackfillPlan 回填计划
type BackfillPlan struct {
	Changes []BackfillChange
	Skipped []string // 无法唯一确定院系的分配
}

// PlanBackfill 为 department_id 缺失的分配计算回填值
//
// staff: 教师院系合法时回填；links: 该课程的合法关联恰好指向一个院系时回填。
// 已有合法院系的分配不在计划内。
func PlanBackfill(source string, assignments []model.FacultyAssignment, staff []model.Staff, links []model.DepartmentSubject) (*BackfillPlan, error) {
	if source != SourceStaff && source != SourceLinks {
		return nil, fmt.Errorf("未知回填来源 %q（可选 staff / links）", source)
	}

	staffDept := make(map[refid.ID]refid.ID, len(staff))
	for i := range staff {
		sid, err := refid.Parse(staff[i].StaffID)
		if err != nil {
			continue
		}
		if d, ok, err := refid.ParsePtr(staff[i].DepartmentID); err == nil && ok {
			staffDept[sid] = d
		}
	}

	subjectDepts := make(map[refid.ID]refid.Set)
	for i := range links {
		s, err := refid.Parse(links[i].SubjectID)
		if err != nil {
			continue
		}
		d, err := refid.Parse(links[i].DepartmentID)
		if err != nil {
			continue
		}
		if subjectDepts[s] == nil {
			subjectDepts[s] = make(refid.Set)
		}
		subjectDepts[s].Add(d)
	}

	plan := &BackfillPlan{}
	for i := range assignments {
		a := &assignments[i]
		if _, ok, err := refid.ParsePtr(a.DepartmentID); err == nil && ok {
			continue
		}

		var (
			dept  refid.ID
			found bool
		)
		switch source {
		case SourceStaff:
			if sid, err := refid.Parse(a.StaffID); err == nil {
				dept, found = staffDept[sid]
			}
		case SourceLinks:
			if sub, err := refid.Parse(a.SubjectID); err == nil {
				if depts := subjectDepts[sub]; len(depts) == 1 {
					for d := range depts {
						dept, found = d, true
					}
				}
			}
		}

		if !found {
			plan.Skipped = append(plan.Skipped, a.AssignmentID)
			continue
		}
		plan.Changes = append(plan.Changes, BackfillChange{AssignmentID: a.AssignmentID, DepartmentID: dept.String()})
	}

	sort.Slice(plan.Changes, func(i, j int) bool { return plan.Changes[i].AssignmentID < plan.Changes[j].AssignmentID })
	sort.Strings(plan.Skipped)
	return plan, nil
}

// BackfillAssignmentDepartments 回填 faculty_assignments.department_id
func (r *Runner) BackfillAssignmentDepartments(ctx context.Context, source string, dryRun bool) (*Result, error) {
	return r.record(ctx, StepBackfillDepts, dryRun, func(ctx context.Context) (*Result, error) {
		res := newResult()
		res.Details["source"] = source

		var assignments []model.FacultyAssignment
		if err := r.db.WithContext(ctx).
			Where("department_id IS NULL OR "+absentRefSQL("department_id"), absentLiterals()).
			Find(&assignments).Error; err != nil {
			return res, fmt.Errorf("查询待回填分配失败: %w", err)
		}

		var (
			staff []model.Staff
			links []model.DepartmentSubject
		)
		switch source {
		case SourceStaff:
			if err := r.db.WithContext(ctx).Find(&staff).Error; err != nil {
				return res, fmt.Errorf("查询教职工失败: %w", err)
			}
		case SourceLinks:
			if err := r.db.WithContext(ctx).Find(&links).Error; err != nil {
				return res, fmt.Errorf("查询院系课程关联失败: %w", err)
			}
		}

		plan, err := PlanBackfill(source, assignments, staff, links)
		if err != nil {
			return res, err
		}
		res.Details["candidates"] = len(assignments)
		res.Details["skipped"] = len(plan.Skipped)
		res.Affected = int64(len(plan.Changes))
		if dryRun || len(plan.Changes) == 0 {
			return res, nil
		}

		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, c := range plan.Changes {
				if err := tx.Model(&model.FacultyAssignment{}).
					Where("assignment_id = ?", c.AssignmentID).
					Update("department_id", c.DepartmentID).Error; err != nil {
					return fmt.Errorf("回填分配 %s 失败: %w", c.AssignmentID, err)
				}
			}
			return nil
		})
		return res, err
	})
}
