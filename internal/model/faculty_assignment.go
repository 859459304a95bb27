package model

// FacultyAssignment 任课分配，对应表 faculty_assignments
//
// DepartmentID 为冗余字段，历史回填缺陷导致部分记录为空。
type FacultyAssignment struct {
	AssignmentID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignmentId"`
	StaffID        string  `gorm:"type:text;not null"                             json:"staffId"`
	SubjectID      string  `gorm:"type:text;not null"                             json:"subjectId"`
	AcademicYearID *string `gorm:"type:text"                                      json:"academicYearId"`
	DepartmentID   *string `gorm:"type:text"                                      json:"departmentId"`
	BaseModel
}

// TableName 指定表名
func (FacultyAssignment) TableName() string { return "faculty_assignments" }
