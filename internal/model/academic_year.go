package model

import "time"

// AcademicYear 学年表，对应表 academic_years
type AcademicYear struct {
	AcademicYearID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"academicYearId"`
	Name           string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Abbreviation   string     `gorm:"type:varchar(20)"                               json:"abbreviation,omitempty"`
	StartDate      *time.Time `gorm:"type:date"                                      json:"startDate,omitempty"`
	EndDate        *time.Time `gorm:"type:date"                                      json:"endDate,omitempty"`
	FeedbackStart  *time.Time `gorm:"type:date"                                      json:"feedbackStart,omitempty"`
	FeedbackEnd    *time.Time `gorm:"type:date"                                      json:"feedbackEnd,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (AcademicYear) TableName() string { return "academic_years" }
