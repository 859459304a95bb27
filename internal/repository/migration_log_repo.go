package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
)

// MigrationLogRepository 维护步骤日志数据访问接口
type MigrationLogRepository interface {
	Create(ctx context.Context, log *model.MigrationLog) error
	ListByStep(ctx context.Context, step string, limit int) ([]model.MigrationLog, error)
}

type migrationLogRepo struct {
	db *gorm.DB
}

// NewMigrationLogRepo 创建 MigrationLogRepository 实例
func NewMigrationLogRepo(db *gorm.DB) MigrationLogRepository {
	return &migrationLogRepo{db: db}
}

func (r *migrationLogRepo) Create(ctx context.Context, log *model.MigrationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *migrationLogRepo) ListByStep(ctx context.Context, step string, limit int) ([]model.MigrationLog, error) {
	var logs []model.MigrationLog
	db := r.db.WithContext(ctx)
	if step != "" {
		db = db.Where("step = ?", step)
	}
	err := db.Order("started_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
