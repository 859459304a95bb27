package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/config"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/api/handler"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/jwt"
)

func newTestEngine(t *testing.T) (*jwt.Manager, http.Handler) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "router-test-secret"
	cfg.Auth.AccessTokenTTL = time.Minute
	cfg.Server.BodyLimit = 1 << 20

	mgr := jwt.NewManager(&cfg.Auth)
	h := &handler.Handler{}
	return mgr, Setup(cfg, h, mgr, nil, zap.NewNop())
}

func TestHealth(t *testing.T) {
	_, r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际: %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("期望响应头带 X-Request-ID")
	}
}

func TestProtectedRoutes(t *testing.T) {
	mgr, r := newTestEngine(t)
	faculty, _ := mgr.GenerateAccessToken("u-1", "FACULTY", "")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"未认证访问任务", "GET", "/api/v1/tasks/me", "", http.StatusUnauthorized},
		{"教师访问任务", "GET", "/api/v1/tasks/me", faculty, http.StatusForbidden},
		{"教师提交评教", "POST", "/api/v1/feedback", faculty, http.StatusForbidden},
		{"教师创建院系", "POST", "/api/v1/departments", faculty, http.StatusForbidden},
		{"教师管理用户", "GET", "/api/v1/users", faculty, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("期望 %d，实际: %d", tt.want, w.Code)
			}
		})
	}
}
