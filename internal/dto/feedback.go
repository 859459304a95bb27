package dto

// ── 评教提交 DTO ──

// SubmitFeedbackRequest 提交评教
type SubmitFeedbackRequest struct {
	AssignmentID string         `json:"assignmentId" binding:"required,refid"`
	Ratings      map[string]int `json:"ratings"      binding:"required"`
	Comment      string         `json:"comment"      binding:"omitempty,max=2000"`
}

// FeedbackResponse 评教记录
type FeedbackResponse struct {
	ID           string         `json:"id"`
	AssignmentID string         `json:"assignmentId"`
	Ratings      map[string]int `json:"ratings"`
	Comment      string         `json:"comment,omitempty"`
	SubmittedAt  string         `json:"submittedAt"`
}
