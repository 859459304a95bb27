package dto

// ── 教职工模块 DTO ──

// CreateStaffRequest 创建教职工（同时创建 FACULTY 账号）
type CreateStaffRequest struct {
	Name         string `json:"name"         binding:"required,min=2,max=100"`
	Email        string `json:"email"        binding:"required,email"`
	Designation  string `json:"designation"  binding:"omitempty,max=100"`
	DepartmentID string `json:"departmentId" binding:"required,refid"`
}

// UpdateStaffRequest 更新教职工
type UpdateStaffRequest struct {
	Name         *string `json:"name"         binding:"omitempty,min=2,max=100"`
	Designation  *string `json:"designation"  binding:"omitempty,max=100"`
	DepartmentID *string `json:"departmentId" binding:"omitempty,refid"`
}

// StaffListRequest 教职工列表查询参数
type StaffListRequest struct {
	DepartmentID string `form:"departmentId" binding:"omitempty,refid"`
}

// StaffResponse 教职工响应
type StaffResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Designation  string  `json:"designation,omitempty"`
	DepartmentID *string `json:"departmentId"`
}

// CreateStaffResponse 创建教职工响应
type CreateStaffResponse struct {
	Staff        StaffResponse `json:"staff"`
	TempPassword string        `json:"tempPassword"`
}
