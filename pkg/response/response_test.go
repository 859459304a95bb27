package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOKPage_TotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		OKPage(c, []int{}, tt.total, 1, tt.pageSize)

		var body struct {
			Data PageData `json:"data"`
		}
		json.Unmarshal(w.Body.Bytes(), &body)
		if body.Data.Pagination.TotalPages != tt.want {
			t.Errorf("total=%d pageSize=%d: 期望 %d 页，实际: %d", tt.total, tt.pageSize, tt.want, body.Data.Pagination.TotalPages)
		}
	}
}

func TestInvalidParams_Details(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
	}
	verr := validator.New().Struct(req{Email: "x"})

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"校验错误", verr, "Email:email"},
		{"语法错误", json.Unmarshal([]byte("{"), &struct{}{}), "请求体不是合法 JSON"},
		{"未知错误", errors.New("other"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			InvalidParams(c, tt.err)

			if w.Code != http.StatusBadRequest {
				t.Errorf("期望 400，实际: %d", w.Code)
			}
			var resp Response
			json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Code != 10001 || resp.Details != tt.want {
				t.Errorf("期望 details %q，实际: %+v", tt.want, resp)
			}
		})
	}
}

func TestFile(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	File(c, "计算机系 汇总.xlsx", "application/octet-stream", []byte("data"))

	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") || strings.Contains(cd, " 汇总") {
		t.Errorf("文件名未编码: %q", cd)
	}
	if w.Body.String() != "data" {
		t.Errorf("期望 body=data，实际: %q", w.Body.String())
	}
}
