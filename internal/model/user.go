package model

// User 用户表，对应表 users
//
// department_id / academic_year_id 为自由文本引用（无外键），可能缺失或非法。
type User struct {
	UserID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"userId"`
	Name               string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email              string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string  `gorm:"type:varchar(20);not null;default:'STUDENT'"    json:"role"`
	DepartmentID       *string `gorm:"type:text"                                      json:"departmentId"`
	AcademicYearID     *string `gorm:"type:text"                                      json:"academicYearId"`
	EnrollmentNo       *string `gorm:"type:varchar(50)"                               json:"enrollmentNo,omitempty"`
	MustChangePassword bool    `gorm:"not null;default:false"                         json:"mustChangePassword"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsStudent 是否为学生
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
