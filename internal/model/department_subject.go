package model

// DepartmentSubject 院系-课程关联，对应表 department_subjects
//
// 预期唯一键为 (department_id, subject_id, academic_year_id)；
// 历史数据只在 (department_id, subject_id) 上去重，同一课程可能出现多条不同学年的关联。
type DepartmentSubject struct {
	LinkID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"linkId"`
	DepartmentID   string  `gorm:"type:text;not null"                             json:"departmentId"`
	SubjectID      string  `gorm:"type:text;not null"                             json:"subjectId"`
	AcademicYearID *string `gorm:"type:text"                                      json:"academicYearId"`
	BaseModel
}

// TableName 指定表名
func (DepartmentSubject) TableName() string { return "department_subjects" }
