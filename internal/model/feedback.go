package model

import (
	"time"

	"gorm.io/datatypes"
)

// Ratings 评分项 → 分值（1-5）
type Ratings map[string]int

// Feedback 学生评教记录，对应表 feedback
//
// (student_id, assignment_id) 上有唯一索引，同一学生对同一任课分配只能提交一次。
type Feedback struct {
	FeedbackID   string                      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"feedbackId"`
	StudentID    string                      `gorm:"type:text;not null"                             json:"studentId"`
	AssignmentID string                      `gorm:"type:text;not null"                             json:"assignmentId"`
	Ratings      datatypes.JSONType[Ratings] `gorm:"type:jsonb;not null"                            json:"ratings"`
	Comment      string                      `gorm:"type:text"                                      json:"comment,omitempty"`
	SubmittedAt  time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submittedAt"`
}

// TableName 指定表名
func (Feedback) TableName() string { return "feedback" }
