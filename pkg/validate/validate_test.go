package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	DepartmentID string  `validate:"required,refid"`
	YearID       *string `validate:"omitempty,refid"`
	Role         string  `validate:"omitempty,role"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatalf("注册校验规则失败: %v", err)
	}
	return v
}

func TestRefid(t *testing.T) {
	v := newValidator(t)

	ok := sample{DepartmentID: "3f2b8c1e-9a4d-4c6b-8e21-5d7f0a9b1c23", Role: "HOD"}
	if err := v.Struct(ok); err != nil {
		t.Errorf("合法结构体不应报错: %v", err)
	}

	bad := sample{DepartmentID: "64f1c2a9e4b0a1b2c3d4e5f6"}
	if err := v.Struct(bad); err == nil {
		t.Error("非法 refid 应报错")
	}

	null := "null"
	badPtr := sample{DepartmentID: ok.DepartmentID, YearID: &null}
	if err := v.Struct(badPtr); err == nil {
		t.Error("字面量 null 不是合法 refid")
	}
}

func TestRole(t *testing.T) {
	v := newValidator(t)
	s := sample{DepartmentID: "3f2b8c1e-9a4d-4c6b-8e21-5d7f0a9b1c23", Role: "member"}
	if err := v.Struct(s); err == nil {
		t.Error("未知角色应报错")
	}
}

func TestJSONFieldName(t *testing.T) {
	type req struct {
		AssignmentID string `json:"assignmentId" validate:"required"`
	}
	v := newValidator(t)
	err := v.Struct(req{})
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) != 1 {
		t.Fatalf("期望 1 个校验错误，实际: %v", err)
	}
	if verrs[0].Field() != "assignmentId" {
		t.Errorf("期望字段名 assignmentId，实际: %s", verrs[0].Field())
	}
}
