package model

import (
	"time"

	"gorm.io/datatypes"
)

// MigrationLog 维护步骤执行记录，对应表 migration_logs
type MigrationLog struct {
	LogID      string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"logId"`
	Step       string         `gorm:"type:varchar(64);not null"                      json:"step"`
	DryRun     bool           `gorm:"not null;default:false"                         json:"dryRun"`
	Affected   int64          `gorm:"not null;default:0"                             json:"affected"`
	Details    datatypes.JSON `gorm:"type:jsonb"                                     json:"details,omitempty"`
	Error      string         `gorm:"type:text"                                      json:"error,omitempty"`
	StartedAt  time.Time      `gorm:"not null"                                       json:"startedAt"`
	FinishedAt time.Time      `gorm:"not null"                                       json:"finishedAt"`
}

// TableName 指定表名
func (MigrationLog) TableName() string { return "migration_logs" }
