package service

import (
	"context"
	"strings"
	"testing"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
)

// 测试用固定 ID
const (
	idDeptCS    = "11111111-1111-4111-8111-111111111111"
	idDeptEE    = "22222222-2222-4222-8222-222222222222"
	idYear1     = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaa1"
	idYear2     = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaa2"
	idStudent   = "33333333-3333-4333-8333-333333333333"
	idHOD       = "44444444-4444-4444-8444-444444444444"
	idAdmin     = "55555555-5555-4555-8555-555555555555"
	idFacUser   = "66666666-6666-4666-8666-666666666666"
	idStaffA    = "77777777-7777-4777-8777-77777777777a"
	idStaffB    = "77777777-7777-4777-8777-77777777777b"
	idSubMath   = "88888888-8888-4888-8888-88888888888a"
	idSubPhys   = "88888888-8888-4888-8888-88888888888b"
	idAssignA   = "99999999-9999-4999-8999-99999999999a"
	idAssignB   = "99999999-9999-4999-8999-99999999999b"
	idAssignOld = "99999999-9999-4999-8999-99999999999c"

	// 含字母的 ID，用于历史数据大小写场景
	idDeptLegacy    = "bbbbbbbb-cccc-4ddd-8eee-ffffffffff01"
	idYearLegacy    = "bbbbbbbb-cccc-4ddd-8eee-ffffffffff02"
	idStudentLegacy = "bbbbbbbb-cccc-4ddd-8eee-ffffffffff03"
	idAssignLegacy  = "bbbbbbbb-cccc-4ddd-8eee-ffffffffff04"
)

var (
	adminCaller = Caller{UserID: idAdmin, Role: model.RoleAdmin}
	hodCaller   = Caller{UserID: idHOD, Role: model.RoleHOD, DepartmentID: idDeptCS}
)

// seedLegacyCaseScenario 历史导入数据：学生、关联、分配中的引用为大写或带空白，
// 主键本身为规范化小写。
//
//	关联 (院系, 数学, 学年) + 分配 (数学, 教师A, 学年) → 学生应得到 1 条任务
func seedLegacyCaseScenario(t *testing.T, m *mockRepos) {
	t.Helper()
	ctx := context.Background()

	m.depts.Create(ctx, &model.Department{DepartmentID: idDeptLegacy, Name: "历史院系", IsFeedbackActive: true})
	m.years.Create(ctx, &model.AcademicYear{AcademicYearID: idYearLegacy, Name: "历史学年"})
	m.users.Create(ctx, &model.User{
		UserID:         idStudentLegacy,
		Name:           "历史学生",
		Email:          "legacy@example.com",
		Role:           model.RoleStudent,
		DepartmentID:   model.StrPtr(strings.ToUpper(idDeptLegacy)),
		AcademicYearID: model.StrPtr(" " + strings.ToUpper(idYearLegacy)),
	})
	m.subjects.Create(ctx, &model.Subject{SubjectID: idSubMath, Name: "数学", Code: "MA101"})
	m.staff.Create(ctx, &model.Staff{StaffID: idStaffA, UserID: idFacUser, Name: "教师A"})

	m.links.links = append(m.links.links, &model.DepartmentSubject{
		LinkID:         "legacy-link",
		DepartmentID:   strings.ToUpper(idDeptLegacy),
		SubjectID:      " " + strings.ToUpper(idSubMath),
		AcademicYearID: model.StrPtr(strings.ToUpper(idYearLegacy)),
	})
	m.assignments.assignments = append(m.assignments.assignments, &model.FacultyAssignment{
		AssignmentID:   idAssignLegacy,
		StaffID:        strings.ToUpper(idStaffA),
		SubjectID:      strings.ToUpper(idSubMath) + " ",
		AcademicYearID: model.StrPtr(strings.ToUpper(idYearLegacy)),
	})
}

// seedFeedbackScenario 构造一个开启评教的院系：
//
//	数学（学年1）: 教师 A、教师 B 各一条分配
//	物理（学年1）: 教师 A 一条分配；另有一条学年2 的历史分配
//	学生属于该院系、学年1
func seedFeedbackScenario(t *testing.T, m *mockRepos) {
	t.Helper()
	ctx := context.Background()

	m.depts.Create(ctx, &model.Department{DepartmentID: idDeptCS, Name: "计算机系", IsFeedbackActive: true})
	m.depts.Create(ctx, &model.Department{DepartmentID: idDeptEE, Name: "电子系", IsFeedbackActive: true})
	m.years.Create(ctx, &model.AcademicYear{AcademicYearID: idYear1, Name: "一年级"})
	m.years.Create(ctx, &model.AcademicYear{AcademicYearID: idYear2, Name: "二年级"})

	m.users.Create(ctx, &model.User{
		UserID:         idStudent,
		Name:           "学生",
		Email:          "student@example.com",
		Role:           model.RoleStudent,
		DepartmentID:   model.StrPtr(idDeptCS),
		AcademicYearID: model.StrPtr(idYear1),
	})
	m.users.Create(ctx, &model.User{UserID: idFacUser, Name: "教师A", Email: "a@example.com", Role: model.RoleFaculty})

	m.subjects.Create(ctx, &model.Subject{SubjectID: idSubMath, Name: "数学", Code: "MA101"})
	m.subjects.Create(ctx, &model.Subject{SubjectID: idSubPhys, Name: "物理", Code: "PH101"})

	m.links.Create(ctx, &model.DepartmentSubject{DepartmentID: idDeptCS, SubjectID: idSubMath, AcademicYearID: model.StrPtr(idYear1)})
	m.links.Create(ctx, &model.DepartmentSubject{DepartmentID: idDeptCS, SubjectID: idSubPhys, AcademicYearID: model.StrPtr(idYear1)})

	m.staff.Create(ctx, &model.Staff{StaffID: idStaffA, UserID: idFacUser, Name: "教师A", DepartmentID: model.StrPtr(idDeptCS)})
	m.staff.Create(ctx, &model.Staff{StaffID: idStaffB, UserID: "u-b", Name: "教师B", DepartmentID: model.StrPtr(idDeptCS)})

	m.assignments.Create(ctx, &model.FacultyAssignment{AssignmentID: idAssignA, StaffID: idStaffA, SubjectID: idSubMath})
	m.assignments.Create(ctx, &model.FacultyAssignment{AssignmentID: idAssignB, StaffID: idStaffB, SubjectID: idSubMath})
	m.assignments.Create(ctx, &model.FacultyAssignment{AssignmentID: "99999999-9999-4999-8999-99999999999d", StaffID: idStaffA, SubjectID: idSubPhys})
	m.assignments.Create(ctx, &model.FacultyAssignment{AssignmentID: idAssignOld, StaffID: idStaffB, SubjectID: idSubPhys, AcademicYearID: model.StrPtr(idYear2)})
}
