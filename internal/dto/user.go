package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Name           string  `json:"name"           binding:"required,min=2,max=100"`
	Email          string  `json:"email"          binding:"required,email"`
	Password       string  `json:"password"       binding:"omitempty,min=8,max=64"`
	Role           string  `json:"role"           binding:"required,role"`
	DepartmentID   *string `json:"departmentId"   binding:"omitempty,refid"`
	AcademicYearID *string `json:"academicYearId" binding:"omitempty,refid"`
	EnrollmentNo   *string `json:"enrollmentNo"   binding:"omitempty,max=50"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	DepartmentID string `form:"departmentId" binding:"omitempty,refid"`
	Role         string `form:"role"         binding:"omitempty,role"`
	Keyword      string `form:"keyword"      binding:"omitempty,max=50"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	Name           *string `json:"name"           binding:"omitempty,min=2,max=100"`
	Email          *string `json:"email"          binding:"omitempty,email"`
	Role           *string `json:"role"           binding:"omitempty,role"`
	DepartmentID   *string `json:"departmentId"   binding:"omitempty,refid"`
	AcademicYearID *string `json:"academicYearId" binding:"omitempty,refid"`
	EnrollmentNo   *string `json:"enrollmentNo"   binding:"omitempty,max=50"`
}

// CreateUserResponse 创建用户响应；未指定密码时返回临时密码
type CreateUserResponse struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"tempPassword,omitempty"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	TempPassword string `json:"tempPassword"`
}
