// Package validate 注册自定义 binding 校验规则
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// Register 在 gin 默认校验器上注册 refid / role 规则
//
//	refid: 合法引用 ID（UUID 文本）
//	role:  ADMIN | HOD | FACULTY | STUDENT
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("binding 校验器类型异常: %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

// RegisterOn 在指定校验器上注册规则
// 同时让校验错误使用 json 字段名，便于前端定位
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("refid", func(fl validator.FieldLevel) bool {
		return refid.Valid(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "ADMIN", "HOD", "FACULTY", "STUDENT":
			return true
		}
		return false
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}
