package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/resolver"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/response"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/validate"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validate.Register(); err != nil {
		panic(err)
	}
}

const (
	testDeptID       = "11111111-1111-4111-8111-111111111111"
	testAssignmentID = "99999999-9999-4999-8999-99999999999a"
)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	logoutErr     error
	logoutJTI     string
	meResult      *dto.UserResponse
	meErr         error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.logoutJTI = jti
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock DepartmentService ──

type mockDepartmentService struct {
	service.DepartmentService
	toggleResult *dto.DepartmentResponse
	toggleErr    error
	toggleCaller service.Caller
	updateErr    error
}

func (m *mockDepartmentService) ToggleFeedback(_ context.Context, _ string, active bool, caller service.Caller) (*dto.DepartmentResponse, error) {
	m.toggleCaller = caller
	if m.toggleResult != nil {
		m.toggleResult.IsFeedbackActive = active
	}
	return m.toggleResult, m.toggleErr
}
func (m *mockDepartmentService) Update(_ context.Context, _ string, _ *dto.UpdateDepartmentRequest, _ string) (*dto.DepartmentResponse, error) {
	return &dto.DepartmentResponse{}, m.updateErr
}

// ── Mock TaskService ──

type mockTaskService struct {
	result *dto.TaskListResponse
	err    error
}

func (m *mockTaskService) Resolve(_ context.Context, _ string) ([]resolver.Task, error) {
	return []resolver.Task{}, m.err
}
func (m *mockTaskService) ListMine(_ context.Context, _ string) (*dto.TaskListResponse, error) {
	return m.result, m.err
}

// ── Mock FeedbackService ──

type mockFeedbackService struct {
	submitResult *dto.FeedbackResponse
	submitErr    error
	submitted    *dto.SubmitFeedbackRequest
}

func (m *mockFeedbackService) Submit(_ context.Context, _ string, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error) {
	m.submitted = req
	return m.submitResult, m.submitErr
}
func (m *mockFeedbackService) ListMine(_ context.Context, _ string) ([]dto.FeedbackResponse, error) {
	return []dto.FeedbackResponse{}, nil
}

// ── Mock ReportService ──

type mockReportService struct {
	service.ReportService
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockReportService) ExportDepartment(_ context.Context, _ string, _ service.Caller) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context, role string) {
	c.Set("user_id", "test-user-id")
	c.Set("role", role)
	c.Set("department_id", testDeptID)
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

func withAuth(role string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c, role)
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "test-access-token", ExpiresIn: 3600},
	}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@example.com", Password: "password123"}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@example.com", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_PassesJTI(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/logout", withAuth(model.RoleStudent, h.Logout))
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutJTI != "test-jti" {
		t.Errorf("expected jti test-jti, got %q", mock.logoutJTI)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/auth/me", h.Me)
	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_Mismatch(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrOldPasswordMismatch})

	r := gin.New()
	r.PUT("/auth/password", withAuth(model.RoleStudent, h.ChangePassword))
	w := serve(r, "PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{OldPassword: "Old12345", NewPassword: "New12345"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DepartmentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDepartmentHandler_ToggleFeedback(t *testing.T) {
	mock := &mockDepartmentService{toggleResult: &dto.DepartmentResponse{ID: testDeptID}}
	h := NewDepartmentHandler(mock)

	r := gin.New()
	r.PUT("/departments/:id/feedback", withAuth(model.RoleHOD, h.ToggleFeedback))
	w := serve(r, "PUT", "/departments/"+testDeptID+"/feedback", jsonBody(map[string]bool{"active": true}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.toggleCaller.Role != model.RoleHOD || mock.toggleCaller.DepartmentID != testDeptID {
		t.Errorf("caller not propagated: %+v", mock.toggleCaller)
	}
}

func TestDepartmentHandler_ToggleFeedback_MissingActive(t *testing.T) {
	h := NewDepartmentHandler(&mockDepartmentService{})

	r := gin.New()
	r.PUT("/departments/:id/feedback", withAuth(model.RoleAdmin, h.ToggleFeedback))
	w := serve(r, "PUT", "/departments/"+testDeptID+"/feedback", jsonBody(map[string]string{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDepartmentHandler_ToggleFeedback_Forbidden(t *testing.T) {
	h := NewDepartmentHandler(&mockDepartmentService{toggleErr: service.ErrNoPermission})

	r := gin.New()
	r.PUT("/departments/:id/feedback", withAuth(model.RoleHOD, h.ToggleFeedback))
	w := serve(r, "PUT", "/departments/"+testDeptID+"/feedback", jsonBody(map[string]bool{"active": false}))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestDepartmentHandler_InvalidID(t *testing.T) {
	h := NewDepartmentHandler(&mockDepartmentService{})

	r := gin.New()
	r.PUT("/departments/:id/feedback", withAuth(model.RoleAdmin, h.ToggleFeedback))
	w := serve(r, "PUT", "/departments/null/feedback", jsonBody(map[string]bool{"active": true}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDepartmentHandler_Update_Conflict(t *testing.T) {
	h := NewDepartmentHandler(&mockDepartmentService{updateErr: service.ErrDepartmentConflict})

	r := gin.New()
	r.PUT("/departments/:id", withAuth(model.RoleAdmin, h.UpdateDepartment))
	w := serve(r, "PUT", "/departments/"+testDeptID, jsonBody(map[string]interface{}{"name": "新名称", "version": 1}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 13004 {
		t.Errorf("expected error code 13004, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TaskHandler / FeedbackHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTaskHandler_ListMyTasks(t *testing.T) {
	mock := &mockTaskService{result: &dto.TaskListResponse{Tasks: []dto.TaskResponse{}, Total: 3, Completed: 1}}
	h := NewTaskHandler(mock)

	r := gin.New()
	r.GET("/tasks/me", withAuth(model.RoleStudent, h.ListMyTasks))
	w := serve(r, "GET", "/tasks/me", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data dto.TaskListResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Total != 3 || body.Data.Completed != 1 || body.Data.Tasks == nil {
		t.Errorf("unexpected payload: %s", w.Body.String())
	}
}

func TestTaskHandler_ListMyTasks_Error(t *testing.T) {
	h := NewTaskHandler(&mockTaskService{err: context.DeadlineExceeded})

	r := gin.New()
	r.GET("/tasks/me", withAuth(model.RoleStudent, h.ListMyTasks))
	w := serve(r, "GET", "/tasks/me", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestFeedbackHandler_Submit(t *testing.T) {
	mock := &mockFeedbackService{submitResult: &dto.FeedbackResponse{ID: "fb-1"}}
	h := NewFeedbackHandler(mock)

	r := gin.New()
	r.POST("/feedback", withAuth(model.RoleStudent, h.Submit))
	w := serve(r, "POST", "/feedback", jsonBody(dto.SubmitFeedbackRequest{
		AssignmentID: testAssignmentID,
		Ratings:      map[string]int{"clarity": 5},
	}))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.submitted == nil || mock.submitted.Ratings["clarity"] != 5 {
		t.Errorf("request not forwarded: %+v", mock.submitted)
	}
}

func TestFeedbackHandler_Submit_Errors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"not eligible", service.ErrFeedbackNotEligible, http.StatusForbidden, 18003},
		{"duplicate", service.ErrFeedbackAlreadySubmitted, http.StatusConflict, 18004},
		{"invalid ratings", service.ErrFeedbackInvalidRatings, http.StatusBadRequest, 18001},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewFeedbackHandler(&mockFeedbackService{submitErr: tc.err})

			r := gin.New()
			r.POST("/feedback", withAuth(model.RoleStudent, h.Submit))
			w := serve(r, "POST", "/feedback", jsonBody(dto.SubmitFeedbackRequest{
				AssignmentID: testAssignmentID,
				Ratings:      map[string]int{"clarity": 5},
			}))

			if w.Code != tc.wantHTTP {
				t.Errorf("expected %d, got %d", tc.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tc.wantCode {
				t.Errorf("expected error code %d, got %d", tc.wantCode, resp.Code)
			}
		})
	}
}

func TestFeedbackHandler_Submit_MalformedAssignment(t *testing.T) {
	mock := &mockFeedbackService{}
	h := NewFeedbackHandler(mock)

	r := gin.New()
	r.POST("/feedback", withAuth(model.RoleStudent, h.Submit))
	w := serve(r, "POST", "/feedback", jsonBody(dto.SubmitFeedbackRequest{
		AssignmentID: "64f1c2a9e4b0a1b2c3d4e5f6",
		Ratings:      map[string]int{"clarity": 5},
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if mock.submitted != nil {
		t.Error("service should not be called for malformed id")
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_ExportDepartment(t *testing.T) {
	mock := &mockReportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "评教汇总_计算机系.xlsx"}
	h := NewReportHandler(mock)

	r := gin.New()
	r.GET("/reports/departments/:id/export", withAuth(model.RoleAdmin, h.ExportDepartment))
	w := serve(r, "GET", "/reports/departments/"+testDeptID+"/export", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") {
		t.Errorf("unexpected disposition %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestReportHandler_ExportDepartment_Forbidden(t *testing.T) {
	h := NewReportHandler(&mockReportService{err: service.ErrNoPermission})

	r := gin.New()
	r.GET("/reports/departments/:id/export", withAuth(model.RoleHOD, h.ExportDepartment))
	w := serve(r, "GET", "/reports/departments/"+testDeptID+"/export", nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
