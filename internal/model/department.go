package model

// Department 院系表，对应表 departments
type Department struct {
	DepartmentID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"departmentId"`
	Name             string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Abbreviation     string  `gorm:"type:varchar(20)"                               json:"abbreviation,omitempty"`
	IsFeedbackActive bool    `gorm:"not null;default:false"                         json:"isFeedbackActive"`
	HODUserID        *string `gorm:"column:hod_user_id;type:text"                   json:"hodUserId,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
