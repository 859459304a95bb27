package model

// Staff 教职工档案，对应表 staff
type Staff struct {
	StaffID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staffId"`
	UserID       string  `gorm:"type:text;not null"                             json:"userId"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	Designation  string  `gorm:"type:varchar(100)"                              json:"designation,omitempty"`
	DepartmentID *string `gorm:"type:text"                                      json:"departmentId"`
	SoftDeleteModel
}

// TableName 指定表名
func (Staff) TableName() string { return "staff" }
