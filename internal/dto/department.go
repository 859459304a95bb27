package dto

// ── 院系模块 DTO ──

// CreateDepartmentRequest 创建院系请求
type CreateDepartmentRequest struct {
	Name         string `json:"name"         binding:"required,min=2,max=100"`
	Abbreviation string `json:"abbreviation" binding:"omitempty,max=20"`
}

// UpdateDepartmentRequest 更新院系请求（Version 用于乐观锁）
type UpdateDepartmentRequest struct {
	Name         *string `json:"name"         binding:"omitempty,min=2,max=100"`
	Abbreviation *string `json:"abbreviation" binding:"omitempty,max=20"`
	HODUserID    *string `json:"hodUserId"    binding:"omitempty,refid"`
	Version      int     `json:"version"      binding:"required,min=1"`
}

// ToggleFeedbackRequest 切换评教开关
type ToggleFeedbackRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// DepartmentResponse 院系信息响应
type DepartmentResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Abbreviation     string  `json:"abbreviation,omitempty"`
	IsFeedbackActive bool    `json:"isFeedbackActive"`
	HODUserID        *string `json:"hodUserId,omitempty"`
	Version          int     `json:"version"`
	MemberCount      int64   `json:"memberCount"`
}
