package maintenance

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// RefTable 一张含文本引用列的表
type RefTable struct {
	Table   string
	Key     string   // 主键列
	Columns []string // 需要规范化的引用列
	Unique  []string // 唯一约束涉及的列（为空表示无约束）
}

// RefTables 需要规范化的引用列
var RefTables = []RefTable{
	{Table: "users", Key: "user_id", Columns: []string{"department_id", "academic_year_id"}},
	{Table: "departments", Key: "department_id", Columns: []string{"hod_user_id"}},
	{Table: "staff", Key: "staff_id", Columns: []string{"user_id", "department_id"}},
	{Table: "subjects", Key: "subject_id", Columns: []string{"academic_year_id"}},
	{
		Table:   "department_subjects",
		Key:     "link_id",
		Columns: []string{"department_id", "subject_id", "academic_year_id"},
		Unique:  []string{"department_id", "subject_id", "academic_year_id"},
	},
	{Table: "faculty_assignments", Key: "assignment_id", Columns: []string{"staff_id", "subject_id", "academic_year_id", "department_id"}},
	{
		Table:   "feedback",
		Key:     "feedback_id",
		Columns: []string{"student_id", "assignment_id"},
		Unique:  []string{"student_id", "assignment_id"},
	},
}

// RefRow 一行引用列的原始值（nil 表示 NULL）
type RefRow struct {
	Key    string
	Values map[string]*string
}

// RefChange 单个单元格的规范化
type RefChange struct {
	Key    string
	Column string
	From   string
	To     string
}

// RefPlan 一张表的规范化计划
type RefPlan struct {
	Changes   []RefChange
	Conflicts []string // 规范化后与其他行撞唯一键而跳过的行
}

// PlanRefNormalization 计算一张表需要改写的引用
//
// 只改写能解析为合法 ID 且文本与规范形式不同的值；缺失与非法值保持原样，
// 分别交给 normalize-years 与 delete-orphan-assignments 处理。
// 规范化后唯一键重复的行整行跳过。
func PlanRefNormalization(t RefTable, rows []RefRow) *RefPlan {
	plan := &RefPlan{}

	rowChanges := make(map[string][]RefChange, len(rows))
	canonical := make(map[string]map[string]string, len(rows))
	for _, row := range rows {
		vals := make(map[string]string, len(row.Values))
		for col, raw := range row.Values {
			if raw != nil {
				vals[col] = *raw
			}
		}
		for _, col := range t.Columns {
			raw := row.Values[col]
			if raw == nil || refid.IsAbsent(*raw) {
				continue
			}
			to := refid.Canonical(*raw)
			if to == *raw {
				continue
			}
			vals[col] = to
			rowChanges[row.Key] = append(rowChanges[row.Key], RefChange{Key: row.Key, Column: col, From: *raw, To: to})
		}
		canonical[row.Key] = vals
	}

	if len(t.Unique) > 0 {
		groups := make(map[string][]string)
		for _, row := range rows {
			parts := make([]string, len(t.Unique))
			for i, col := range t.Unique {
				parts[i] = canonical[row.Key][col]
			}
			k := strings.Join(parts, "\x00")
			groups[k] = append(groups[k], row.Key)
		}
		for _, keys := range groups {
			if len(keys) < 2 {
				continue
			}
			for _, key := range keys {
				if _, ok := rowChanges[key]; ok {
					plan.Conflicts = append(plan.Conflicts, key)
					delete(rowChanges, key)
				}
			}
		}
	}

	for _, changes := range rowChanges {
		plan.Changes = append(plan.Changes, changes...)
	}
	sort.Slice(plan.Changes, func(i, j int) bool {
		if plan.Changes[i].Key != plan.Changes[j].Key {
			return plan.Changes[i].Key < plan.Changes[j].Key
		}
		return plan.Changes[i].Column < plan.Changes[j].Column
	})
	sort.Strings(plan.Conflicts)
	return plan
}

// NormalizeRefs 将引用列改写为规范化的小写 UUID 文本
func (r *Runner) NormalizeRefs(ctx context.Context, dryRun bool) (*Result, error) {
	return r.record(ctx, StepNormalizeRefs, dryRun, func(ctx context.Context) (*Result, error) {
		res := newResult()
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, t := range RefTables {
				rows, err := loadRefRows(tx, t)
				if err != nil {
					return fmt.Errorf("读取 %s 失败: %w", t.Table, err)
				}
				plan := PlanRefNormalization(t, rows)
				res.Details[t.Table] = map[string]any{
					"changes":   len(plan.Changes),
					"conflicts": plan.Conflicts,
				}
				res.Affected += int64(len(plan.Changes))
				if dryRun {
					continue
				}
				for _, c := range plan.Changes {
					if err := tx.Table(t.Table).
						Where(t.Key+"::text = ?", c.Key).
						Update(c.Column, c.To).Error; err != nil {
						return fmt.Errorf("规范化 %s.%s (%s) 失败: %w", t.Table, c.Column, c.Key, err)
					}
				}
			}
			return nil
		})
		return res, err
	})
}

func loadRefRows(tx *gorm.DB, t RefTable) ([]RefRow, error) {
	cols := make([]string, 0, len(t.Columns)+1)
	cols = append(cols, t.Key+"::text")
	for _, c := range t.Columns {
		cols = append(cols, c+"::text")
	}

	rows, err := tx.Table(t.Table).Select(strings.Join(cols, ", ")).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RefRow
	for rows.Next() {
		dest := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := RefRow{Key: dest[0].String, Values: make(map[string]*string, len(t.Columns))}
		for i, c := range t.Columns {
			if dest[i+1].Valid {
				v := dest[i+1].String
				row.Values[c] = &v
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
