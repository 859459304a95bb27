package maintenance

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CopyTables copy-db 复制的业务表（migration_logs 保留目标库自身记录）
var CopyTables = []string{
	"departments",
	"academic_years",
	"users",
	"staff",
	"subjects",
	"department_subjects",
	"faculty_assignments",
	"feedback",
}

// CopyDB 在两个数据库之间复制全部业务表
//
// 目标库在单个事务中先 TRUNCATE 再逐表 COPY，失败整体回滚。
// dry-run 只统计源库各表行数。
func (r *Runner) CopyDB(ctx context.Context, sourceDSN, targetDSN string, dryRun bool) (*Result, error) {
	return r.record(ctx, StepCopyDB, dryRun, func(ctx context.Context) (*Result, error) {
		res := newResult()
		if sourceDSN == "" || targetDSN == "" {
			return res, fmt.Errorf("必须同时指定源库与目标库")
		}
		if sourceDSN == targetDSN {
			return res, fmt.Errorf("源库与目标库不能相同")
		}

		src, err := pgx.Connect(ctx, sourceDSN)
		if err != nil {
			return res, fmt.Errorf("连接源库失败: %w", err)
		}
		defer src.Close(ctx)

		if dryRun {
			for _, table := range CopyTables {
				var n int64
				if err := src.QueryRow(ctx, "SELECT count(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n); err != nil {
					return res, fmt.Errorf("统计 %s 失败: %w", table, err)
				}
				res.Details[table] = n
				res.Affected += n
			}
			return res, nil
		}

		dst, err := pgx.Connect(ctx, targetDSN)
		if err != nil {
			return res, fmt.Errorf("连接目标库失败: %w", err)
		}
		defer dst.Close(ctx)

		tx, err := dst.Begin(ctx)
		if err != nil {
			return res, fmt.Errorf("开启目标库事务失败: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if _, err := tx.Exec(ctx, truncateSQL(CopyTables)); err != nil {
			return res, fmt.Errorf("清空目标表失败: %w", err)
		}

		for _, table := range CopyTables {
			n, err := copyTable(ctx, src, tx, table)
			if err != nil {
				return res, err
			}
			r.logger.Info("表复制完成", zap.String("table", table), zap.Int64("rows", n))
			res.Details[table] = n
			res.Affected += n
		}

		if err := tx.Commit(ctx); err != nil {
			return res, fmt.Errorf("提交目标库事务失败: %w", err)
		}
		return res, nil
	})
}

func truncateSQL(tables []string) string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = pgx.Identifier{t}.Sanitize()
	}
	return "TRUNCATE " + strings.Join(quoted, ", ")
}

// copyTable 以流式方式读取源表并通过 COPY 写入目标事务
func copyTable(ctx context.Context, src *pgx.Conn, dst pgx.Tx, table string) (int64, error) {
	rows, err := src.Query(ctx, "SELECT * FROM "+pgx.Identifier{table}.Sanitize())
	if err != nil {
		return 0, fmt.Errorf("读取 %s 失败: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	n, err := dst.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromFunc(func() ([]any, error) {
		if !rows.Next() {
			return nil, rows.Err()
		}
		return rows.Values()
	}))
	if err != nil {
		return n, fmt.Errorf("写入 %s 失败: %w", table, err)
	}
	return n, nil
}
