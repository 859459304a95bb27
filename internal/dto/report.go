package dto

// ── 评教报表 DTO ──

// AssignmentReport 单个任课分配的评教汇总
type AssignmentReport struct {
	AssignmentID string             `json:"assignmentId"`
	SubjectID    string             `json:"subjectId"`
	SubjectName  string             `json:"subjectName"`
	StaffID      string             `json:"staffId"`
	StaffName    string             `json:"staffName"`
	Responses    int                `json:"responses"`
	Averages     map[string]float64 `json:"averages"`
	Overall      float64            `json:"overall"`
}

// DepartmentReport 院系评教汇总
type DepartmentReport struct {
	DepartmentID string             `json:"departmentId"`
	Assignments  []AssignmentReport `json:"assignments"`
}
