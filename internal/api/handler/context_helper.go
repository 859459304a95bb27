package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/service"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/response"
)

// 上下文键（由 JWTAuth 中间件写入）
const (
	ctxUserID       = "user_id"
	ctxRole         = "role"
	ctxDepartmentID = "department_id"
	ctxTokenJTI     = "token_jti"
	ctxTokenExp     = "token_exp"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(ctxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	s := c.GetString(ctxRole)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetDepartmentID 提取 department_id；管理员可能为空
func GetDepartmentID(c *gin.Context) string {
	return c.GetString(ctxDepartmentID)
}

// MustGetCaller 组装调用方身份
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{
		UserID:       userID,
		Role:         role,
		DepartmentID: GetDepartmentID(c),
	}, true
}

// tokenMeta 当前 Token 的 jti 与过期时间（登出用）
func tokenMeta(c *gin.Context) (string, time.Time) {
	return c.GetString(ctxTokenJTI), c.GetTime(ctxTokenExp)
}

// mustParamID 校验路径参数为合法引用 ID，返回规范化后的值
func mustParamID(c *gin.Context, name string) (string, bool) {
	id, err := refid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, 10001, "ID 格式非法")
		return "", false
	}
	return id.String(), true
}
