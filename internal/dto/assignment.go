package dto

// ── 任课分配模块 DTO ──

// CreateAssignmentRequest 创建任课分配
//
// DepartmentID 省略时取教职工所属院系
type CreateAssignmentRequest struct {
	StaffID        string  `json:"staffId"        binding:"required,refid"`
	SubjectID      string  `json:"subjectId"      binding:"required,refid"`
	AcademicYearID *string `json:"academicYearId" binding:"omitempty,refid"`
	DepartmentID   *string `json:"departmentId"   binding:"omitempty,refid"`
}

// AssignmentListRequest 查询参数：按院系或教职工
type AssignmentListRequest struct {
	DepartmentID string `form:"departmentId" binding:"omitempty,refid"`
	StaffID      string `form:"staffId"      binding:"omitempty,refid"`
}

// AssignmentResponse 任课分配响应
type AssignmentResponse struct {
	ID             string  `json:"id"`
	StaffID        string  `json:"staffId"`
	SubjectID      string  `json:"subjectId"`
	AcademicYearID *string `json:"academicYearId"`
	DepartmentID   *string `json:"departmentId"`
}
