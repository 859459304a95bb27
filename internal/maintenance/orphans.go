package maintenance

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// FindOrphanAssignments 找出课程或教师引用无法解析的分配
// subjects / staff 为当前有效（未删除）的记录
func FindOrphanAssignments(assignments []model.FacultyAssignment, subjects []model.Subject, staff []model.Staff) []string {
	subjectSet := make(refid.Set, len(subjects))
	for i := range subjects {
		if id, err := refid.Parse(subjects[i].SubjectID); err == nil {
			subjectSet.Add(id)
		}
	}
	staffSet := make(refid.Set, len(staff))
	for i := range staff {
		if id, err := refid.Parse(staff[i].StaffID); err == nil {
			staffSet.Add(id)
		}
	}

	var orphans []string
	for i := range assignments {
		a := &assignments[i]
		sub, err := refid.Parse(a.SubjectID)
		if err != nil || !subjectSet.Has(sub) {
			orphans = append(orphans, a.AssignmentID)
			continue
		}
		st, err := refid.Parse(a.StaffID)
		if err != nil || !staffSet.Has(st) {
			orphans = append(orphans, a.AssignmentID)
		}
	}
	sort.Strings(orphans)
	return orphans
}

// DeleteOrphanAssignments 删除孤儿任课分配
func (r *Runner) DeleteOrphanAssignments(ctx context.Context, dryRun bool) (*Result, error) {
	return r.record(ctx, StepDeleteOrphans, dryRun, func(ctx context.Context) (*Result, error) {
		res := newResult()

		var (
			assignments []model.FacultyAssignment
			subjects    []model.Subject
			staff       []model.Staff
		)
		db := r.db.WithContext(ctx)
		if err := db.Find(&assignments).Error; err != nil {
			return res, fmt.Errorf("查询任课分配失败: %w", err)
		}
		if err := db.Find(&subjects).Error; err != nil {
			return res, fmt.Errorf("查询课程失败: %w", err)
		}
		if err := db.Find(&staff).Error; err != nil {
			return res, fmt.Errorf("查询教职工失败: %w", err)
		}

		orphans := FindOrphanAssignments(assignments, subjects, staff)
		res.Details["scanned"] = len(assignments)
		res.Details["assignmentIds"] = orphans
		res.Affected = int64(len(orphans))
		if dryRun || len(orphans) == 0 {
			return res, nil
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			result := tx.Where("assignment_id IN ?", orphans).Delete(&model.FacultyAssignment{})
			if result.Error != nil {
				return fmt.Errorf("删除孤儿分配失败: %w", result.Error)
			}
			res.Affected = result.RowsAffected
			return nil
		})
		return res, err
	})
}
