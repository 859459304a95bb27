package dto

// ── 课程模块 DTO ──

// CreateSubjectRequest 创建课程请求
//
// DepartmentID 非空时同时创建院系关联（学年取 AcademicYearID）
type CreateSubjectRequest struct {
	Name           string  `json:"name"           binding:"required,min=1,max=150"`
	Code           string  `json:"code"           binding:"omitempty,max=30"`
	Semester       int     `json:"semester"       binding:"omitempty,min=0,max=12"`
	AcademicYearID *string `json:"academicYearId" binding:"omitempty,refid"`
	DepartmentID   *string `json:"departmentId"   binding:"omitempty,refid"`
}

// UpdateSubjectRequest 更新课程请求
type UpdateSubjectRequest struct {
	Name           *string `json:"name"           binding:"omitempty,min=1,max=150"`
	Code           *string `json:"code"           binding:"omitempty,max=30"`
	Semester       *int    `json:"semester"       binding:"omitempty,min=0,max=12"`
	AcademicYearID *string `json:"academicYearId" binding:"omitempty,refid"`
}

// SubjectListRequest 课程列表查询参数
type SubjectListRequest struct {
	DepartmentID string `form:"departmentId" binding:"omitempty,refid"`
}

// SubjectResponse 课程响应
type SubjectResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Code           string  `json:"code,omitempty"`
	Semester       int     `json:"semester"`
	AcademicYearID *string `json:"academicYearId"`
}

// ── 院系-课程关联 ──

// CreateLinkRequest 关联课程到院系
type CreateLinkRequest struct {
	DepartmentID   string  `json:"departmentId"   binding:"required,refid"`
	SubjectID      string  `json:"subjectId"      binding:"required,refid"`
	AcademicYearID *string `json:"academicYearId" binding:"omitempty,refid"`
}

// LinkResponse 关联响应
type LinkResponse struct {
	ID             string  `json:"id"`
	DepartmentID   string  `json:"departmentId"`
	SubjectID      string  `json:"subjectId"`
	SubjectName    string  `json:"subjectName,omitempty"`
	AcademicYearID *string `json:"academicYearId"`
}
