package maintenance

import (
	"context"
	"fmt"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/database"
)

// Migrate 执行内嵌 SQL 迁移（建表与索引，含评教唯一索引）
func (r *Runner) Migrate(ctx context.Context) (*Result, error) {
	sqlDB, err := r.db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	version, err := database.RunMigrations(sqlDB, r.logger)
	if err != nil {
		return nil, err
	}

	// migration_logs 由迁移创建，日志在迁移之后写入
	return r.record(ctx, StepMigrate, false, func(context.Context) (*Result, error) {
		res := newResult()
		res.Details["version"] = version
		return res, nil
	})
}
