package resolver

import (
	"sort"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// EffectiveYear 任课分配用于匹配的学年：Known(id) 或 Unknown
type EffectiveYear struct {
	id    refid.ID
	known bool
}

// Known 已知学年
func Known(id refid.ID) EffectiveYear {
	if id.IsZero() {
		return Unknown()
	}
	return EffectiveYear{id: id, known: true}
}

// Unknown 无法确定学年
func Unknown() EffectiveYear { return EffectiveYear{} }

// ID 返回学年 ID；Unknown 时 ok=false
func (y EffectiveYear) ID() (refid.ID, bool) { return y.id, y.known }

// IsKnown 是否已知
func (y EffectiveYear) IsKnown() bool { return y.known }

// Ptr 供响应输出：Unknown 返回 nil
func (y EffectiveYear) Ptr() *string {
	if !y.known {
		return nil
	}
	return y.id.Ptr()
}

// YearPolicy 学年匹配策略
type YearPolicy int

const (
	// Strict 仅保留有效学年等于学生学年的分配
	Strict YearPolicy = iota
	// Fallback 在 Strict 基础上，Unknown 视为匹配所有学年
	Fallback
)

// PolicyFor 由选项得到策略
func PolicyFor(opts Options) YearPolicy {
	if opts.AllowAcademicYearFallback {
		return Fallback
	}
	return Strict
}

// Accepts 判断有效学年是否对该学生可见
//
// 学生学年缺失时 Known 学年永不匹配，只有 Fallback 下的 Unknown 可见。
//
//	Known(y):  y == 学生学年（学生学年缺失时不匹配）
//	Unknown:   仅 Fallback 接受
func (p YearPolicy) Accepts(eff EffectiveYear, student EffectiveYear) bool {
	if eff.known {
		return student.known && eff.id == student.id
	}
	return p == Fallback
}

// yearStep 学年回退链中某一环的解析结果
type yearStep int

const (
	stepAbsent yearStep = iota
	stepKnown
	stepMalformed
)

func parseYear(raw *string) (refid.ID, yearStep) {
	id, ok, err := refid.ParsePtr(raw)
	switch {
	case err != nil:
		return refid.ID{}, stepMalformed
	case !ok:
		return refid.ID{}, stepAbsent
	default:
		return id, stepKnown
	}
}

// resolveEffectiveYear 按 分配学年 → 课程主学年 → 院系关联学年 → Unknown 回退。
// 回退链上任一环节实际参与取值且格式非法时返回 ok=false（该分配不产生任务），
// 院系关联学年同样如此。
// 同一课程在本院系存在多条关联时：任一关联学年等于学生学年即取学生学年，
// 否则取字典序最小的已知学年，保证结果确定。
func resolveEffectiveYear(a *model.FacultyAssignment, subject *model.Subject, linkYears []*string, student EffectiveYear) (EffectiveYear, bool) {
	switch id, step := parseYear(a.AcademicYearID); step {
	case stepKnown:
		return Known(id), true
	case stepMalformed:
		return Unknown(), false
	}

	if subject != nil {
		switch id, step := parseYear(subject.AcademicYearID); step {
		case stepKnown:
			return Known(id), true
		case stepMalformed:
			return Unknown(), false
		}
	}

	var known []refid.ID
	for _, raw := range linkYears {
		id, step := parseYear(raw)
		if step == stepMalformed {
			return Unknown(), false
		}
		if step == stepAbsent {
			continue
		}
		if student.known && id == student.id {
			return Known(id), true
		}
		known = append(known, id)
	}
	if len(known) == 0 {
		return Unknown(), true
	}
	sort.Slice(known, func(i, j int) bool { return known[i].String() < known[j].String() })
	return Known(known[0]), true
}
