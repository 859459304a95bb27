package model

// Subject 课程表，对应表 subjects
//
// AcademicYearID 为课程的"主学年"，与院系关联上的学年相互独立。
type Subject struct {
	SubjectID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subjectId"`
	Name           string  `gorm:"type:varchar(150);not null"                     json:"name"`
	Code           string  `gorm:"type:varchar(30)"                               json:"code,omitempty"`
	Semester       int     `gorm:"not null;default:0"                             json:"semester"`
	AcademicYearID *string `gorm:"type:text"                                      json:"academicYearId"`
	SoftDeleteModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
