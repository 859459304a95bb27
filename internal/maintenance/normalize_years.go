package maintenance

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// yearTables 含 academic_year_id 列的表
var yearTables = []string{"users", "subjects", "department_subjects", "faculty_assignments"}

// NormalizeYears 将 academic_year_id 中的 'null' / 'undefined' / 空白改为 NULL
func (r *Runner) NormalizeYears(ctx context.Context, dryRun bool) (*Result, error) {
	return r.record(ctx, StepNormalizeYears, dryRun, func(ctx context.Context) (*Result, error) {
		res := newResult()
		where := absentRefSQL("academic_year_id")
		literals := absentLiterals()

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, table := range yearTables {
				var n int64
				if dryRun {
					if err := tx.Table(table).Where(where, literals).Count(&n).Error; err != nil {
						return fmt.Errorf("统计 %s 失败: %w", table, err)
					}
				} else {
					result := tx.Table(table).Where(where, literals).Update("academic_year_id", gorm.Expr("NULL"))
					if result.Error != nil {
						return fmt.Errorf("清洗 %s 失败: %w", table, result.Error)
					}
					n = result.RowsAffected
				}
				res.Details[table] = n
				res.Affected += n
			}
			return nil
		})
		return res, err
	})
}
