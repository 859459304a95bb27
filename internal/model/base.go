package model

import (
	"time"

	"gorm.io/gorm"
)

// ── 角色常量 ──

const (
	RoleAdmin   = "ADMIN"
	RoleHOD     = "HOD"
	RoleFaculty = "FACULTY"
	RoleStudent = "STUDENT"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"createdBy,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updatedBy,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deletedAt,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deletedBy,omitempty"`
}

// VersionedModel 支持乐观锁的软删除模型
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// StrPtr 返回字符串指针；空串返回 nil
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrVal 解引用字符串指针；nil 返回空串
func StrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
