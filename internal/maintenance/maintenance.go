// Package maintenance 数据修复与运维步骤。
//
// 每个步骤幂等，修改数据的步骤支持 dry-run；无论成功与否都写一条 migration_logs。
package maintenance

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// 步骤名（同时作为 cmd/maint 子命令名）
const (
	StepMigrate        = "migrate"
	StepNormalizeYears = "normalize-years"
	StepNormalizeRefs  = "normalize-refs"
	StepBackfillDepts  = "backfill-assignment-departments"
	StepDeleteOrphans  = "delete-orphan-assignments"
	StepPromoteHOD     = "promote-hod"
	StepAddAdmin       = "add-admin"
	StepCopyDB         = "copy-db"
)

// Result 单个步骤的执行结果
type Result struct {
	Affected int64
	Details  map[string]any
}

func newResult() *Result {
	return &Result{Details: map[string]any{}}
}

// Runner 维护步骤执行器
type Runner struct {
	db     *gorm.DB
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRunner 创建 Runner
func NewRunner(db *gorm.DB, repo *repository.Repository, logger *zap.Logger) *Runner {
	return &Runner{db: db, repo: repo, logger: logger}
}

// record 执行步骤并写入 migration_logs
// 日志写入失败只告警，不覆盖步骤本身的错误
func (r *Runner) record(ctx context.Context, step string, dryRun bool, fn func(ctx context.Context) (*Result, error)) (*Result, error) {
	started := time.Now()
	res, err := fn(ctx)
	if res == nil {
		res = newResult()
	}

	entry := buildLog(step, dryRun, res, err, started, time.Now())
	if logErr := r.repo.MigrationLog.Create(ctx, entry); logErr != nil {
		r.logger.Warn("写入维护日志失败", zap.String("step", step), zap.Error(logErr))
	}

	fields := []zap.Field{
		zap.String("step", step),
		zap.Bool("dry_run", dryRun),
		zap.Int64("affected", res.Affected),
		zap.Duration("elapsed", entry.FinishedAt.Sub(started)),
	}
	if err != nil {
		r.logger.Error("维护步骤失败", append(fields, zap.Error(err))...)
	} else {
		r.logger.Info("维护步骤完成", fields...)
	}
	return res, err
}

func buildLog(step string, dryRun bool, res *Result, err error, started, finished time.Time) *model.MigrationLog {
	entry := &model.MigrationLog{
		Step:       step,
		DryRun:     dryRun,
		Affected:   res.Affected,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if len(res.Details) > 0 {
		if raw, mErr := json.Marshal(res.Details); mErr == nil {
			entry.Details = datatypes.JSON(raw)
		}
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

// absentRefSQL 引用列"缺失"判定（NULL 以外的遗留字面量）
func absentRefSQL(column string) string {
	return "lower(btrim(" + column + ")) IN ?"
}

func absentLiterals() []string { return refid.AbsentLiterals() }
