package dto

// ── 评教任务 DTO ──

// TaskStaff 任务中的任课教师
type TaskStaff struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AssignmentID string `json:"assignmentId"`
}

// TaskResponse 单条评教任务
type TaskResponse struct {
	AssignmentID   string      `json:"assignmentId"`
	AssignmentIDs  []string    `json:"assignmentIds"`
	SubjectID      string      `json:"subjectId"`
	SubjectName    string      `json:"subjectName"`
	SubjectCode    string      `json:"subjectCode,omitempty"`
	StaffIDs       []string    `json:"staffIds"`
	Staff          []TaskStaff `json:"staff"`
	AcademicYearID *string     `json:"academicYearId"`
}

// TaskListResponse GET /tasks/me
type TaskListResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
}
