// Package refid 跨表字符串引用的类型化标识。
//
// 库中 department_id / subject_id / academic_year_id 等引用列是普通 text，
// 历史数据里混有 "null"、空串、手工录入的非法值。业务层只接受经 Parse
// 校验过的 ID，非法引用在边界处被识别并丢弃，不会进入 join 逻辑。
package refid

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalid 引用格式非法
var ErrInvalid = errors.New("引用 ID 格式非法")

// ID 已校验的引用标识（规范化的小写 UUID 文本）。零值表示"无"。
type ID struct {
	v string
}

// 被视为"缺失"的字面量（迁移脚本遗留）
var absentLiterals = map[string]struct{}{
	"":          {},
	"null":      {},
	"undefined": {},
	"<nil>":     {},
}

// Parse 解析必填引用；缺失或非法都返回 ErrInvalid
func Parse(raw string) (ID, error) {
	id, ok, err := ParseOptional(raw)
	if err != nil {
		return ID{}, err
	}
	if !ok {
		return ID{}, ErrInvalid
	}
	return id, nil
}

// ParseOptional 解析可空引用
//   - 缺失（空串 / "null" / "undefined"）: ok=false, err=nil
//   - 非法: err=ErrInvalid
func ParseOptional(raw string) (ID, bool, error) {
	s := strings.TrimSpace(raw)
	if IsAbsent(s) {
		return ID{}, false, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, false, ErrInvalid
	}
	return ID{v: u.String()}, true, nil
}

// ParsePtr 解析 *string 形式的可空引用
func ParsePtr(raw *string) (ID, bool, error) {
	if raw == nil {
		return ID{}, false, nil
	}
	return ParseOptional(*raw)
}

// IsAbsent 判断原始值是否表示"缺失"
func IsAbsent(raw string) bool {
	_, ok := absentLiterals[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// AbsentLiterals 返回被视为缺失的字面量（已排序），供 SQL 清洗使用
func AbsentLiterals() []string {
	out := make([]string, 0, len(absentLiterals))
	for k := range absentLiterals {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Valid 校验原始字符串是否为合法引用（供 binding 校验使用）
func Valid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// Canonical 返回写库用的规范化文本；缺失返回空串，非法值原样返回
func Canonical(raw string) string {
	id, ok, err := ParseOptional(raw)
	if err != nil {
		return raw
	}
	if !ok {
		return ""
	}
	return id.String()
}

// Same 两个原始引用是否指向同一 ID；任一方缺失或非法都不相同
func Same(a, b string) bool {
	x, errA := Parse(a)
	y, errB := Parse(b)
	return errA == nil && errB == nil && x == y
}

// New 生成新 ID
func New() ID {
	return ID{v: uuid.New().String()}
}

// MustParse 仅用于测试与常量
func MustParse(raw string) ID {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String 返回规范化文本
func (id ID) String() string { return id.v }

// IsZero 是否为零值
func (id ID) IsZero() bool { return id.v == "" }

// Ptr 零值返回 nil，用于写回可空列
func (id ID) Ptr() *string {
	if id.v == "" {
		return nil
	}
	s := id.v
	return &s
}

// Set 已校验 ID 的集合
type Set map[ID]struct{}

// NewSet 由多个 ID 构造集合
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add 加入集合（零值忽略）
func (s Set) Add(id ID) {
	if id.IsZero() {
		return
	}
	s[id] = struct{}{}
}

// Has 判断是否包含
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Strings 返回文本切片（无序）
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id.v)
	}
	return out
}
