package dto

// ── 学年模块 DTO ──

// CreateAcademicYearRequest 创建学年请求；日期格式 YYYY-MM-DD
type CreateAcademicYearRequest struct {
	Name          string `json:"name"          binding:"required,min=2,max=100"`
	Abbreviation  string `json:"abbreviation"  binding:"omitempty,max=20"`
	StartDate     string `json:"startDate"     binding:"omitempty,datetime=2006-01-02"`
	EndDate       string `json:"endDate"       binding:"omitempty,datetime=2006-01-02"`
	FeedbackStart string `json:"feedbackStart" binding:"omitempty,datetime=2006-01-02"`
	FeedbackEnd   string `json:"feedbackEnd"   binding:"omitempty,datetime=2006-01-02"`
}

// UpdateAcademicYearRequest 更新学年请求
type UpdateAcademicYearRequest struct {
	Name          *string `json:"name"          binding:"omitempty,min=2,max=100"`
	Abbreviation  *string `json:"abbreviation"  binding:"omitempty,max=20"`
	StartDate     *string `json:"startDate"     binding:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"endDate"       binding:"omitempty,datetime=2006-01-02"`
	FeedbackStart *string `json:"feedbackStart" binding:"omitempty,datetime=2006-01-02"`
	FeedbackEnd   *string `json:"feedbackEnd"   binding:"omitempty,datetime=2006-01-02"`
}

// AcademicYearResponse 学年响应
type AcademicYearResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Abbreviation  string `json:"abbreviation,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	FeedbackStart string `json:"feedbackStart,omitempty"`
	FeedbackEnd   string `json:"feedbackEnd,omitempty"`
}
