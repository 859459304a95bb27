package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/dto"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// ── 报表模块业务错误 ──

var (
	ErrReportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ReportService 评教汇总与导出
type ReportService interface {
	// AssignmentSummary 单个任课分配的评教汇总；FACULTY 仅可查看本人的分配
	AssignmentSummary(ctx context.Context, assignmentID string, caller Caller) (*dto.AssignmentReport, error)
	// DepartmentSummary 院系下所有任课分配的汇总（经院系-课程关联确定范围）
	DepartmentSummary(ctx context.Context, departmentID string, caller Caller) (*dto.DepartmentReport, error)
	// ExportDepartment 导出院系汇总为 Excel
	ExportDepartment(ctx context.Context, departmentID string, caller Caller) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ────────────────────── AssignmentSummary ──────────────────────

func (s *reportService) AssignmentSummary(ctx context.Context, assignmentID string, caller Caller) (*dto.AssignmentReport, error) {
	a, err := s.repo.FacultyAssignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	staffName, staffDept, staffUser := "", "", ""
	if id, err := refid.Parse(a.StaffID); err == nil {
		if st, err := s.repo.Staff.GetByID(ctx, id.String()); err == nil {
			staffName, staffDept, staffUser = st.Name, model.StrVal(st.DepartmentID), st.UserID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	deptID := model.StrVal(a.DepartmentID)
	if deptID == "" {
		deptID = staffDept
	}
	allowed := caller.CanManageDepartment(deptID) ||
		(caller.Role == model.RoleFaculty && staffUser != "" && staffUser == caller.UserID)
	if !allowed {
		return nil, ErrNoPermission
	}

	subjectName := ""
	if id, err := refid.Parse(a.SubjectID); err == nil {
		if sub, err := s.repo.Subject.GetByID(ctx, id.String()); err == nil {
			subjectName = sub.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	feedback, err := s.repo.Feedback.ListByAssignmentIDs(ctx, []string{a.AssignmentID})
	if err != nil {
		s.logger.Error("查询评教记录失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}

	report := summarize(feedback)
	report.AssignmentID = a.AssignmentID
	report.SubjectID = a.SubjectID
	report.SubjectName = subjectName
	report.StaffID = a.StaffID
	report.StaffName = staffName
	return report, nil
}

// ────────────────────── DepartmentSummary ──────────────────────

func (s *reportService) DepartmentSummary(ctx context.Context, departmentID string, caller Caller) (*dto.DepartmentReport, error) {
	if !caller.CanManageDepartment(departmentID) {
		return nil, ErrNoPermission
	}
	deptID, err := refid.Parse(departmentID)
	if err != nil {
		return nil, ErrDepartmentNotFound
	}
	if _, err := s.repo.Department.GetByID(ctx, deptID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	links, err := s.repo.DepartmentSubject.ListByDepartment(ctx, deptID.String())
	if err != nil {
		return nil, err
	}
	subjectSet := make(refid.Set)
	for _, l := range links {
		if id, err := refid.Parse(l.SubjectID); err == nil {
			subjectSet.Add(id)
		}
	}
	ids := subjectSet.Strings()

	assignments, err := s.repo.FacultyAssignment.ListBySubjectIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	subjects, err := s.repo.Subject.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	staffSet := make(refid.Set)
	for _, a := range assignments {
		if id, err := refid.Parse(a.StaffID); err == nil {
			staffSet.Add(id)
		}
	}
	staff, err := s.repo.Staff.ListByIDs(ctx, staffSet.Strings())
	if err != nil {
		return nil, err
	}

	assignmentIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.AssignmentID)
	}
	feedback, err := s.repo.Feedback.ListByAssignmentIDs(ctx, assignmentIDs)
	if err != nil {
		return nil, err
	}

	subjectNames := make(map[string]string, len(subjects))
	for _, sub := range subjects {
		subjectNames[sub.SubjectID] = sub.Name
	}
	staffNames := make(map[string]string, len(staff))
	for _, st := range staff {
		staffNames[st.StaffID] = st.Name
	}
	byAssignment := make(map[string][]model.Feedback)
	for _, fb := range feedback {
		byAssignment[fb.AssignmentID] = append(byAssignment[fb.AssignmentID], fb)
	}

	out := &dto.DepartmentReport{
		DepartmentID: deptID.String(),
		Assignments:  make([]dto.AssignmentReport, 0, len(assignments)),
	}
	for _, a := range assignments {
		r := summarize(byAssignment[a.AssignmentID])
		r.AssignmentID = a.AssignmentID
		r.SubjectID = a.SubjectID
		r.StaffID = a.StaffID
		if id, err := refid.Parse(a.SubjectID); err == nil {
			r.SubjectName = subjectNames[id.String()]
		}
		if id, err := refid.Parse(a.StaffID); err == nil {
			r.StaffName = staffNames[id.String()]
		}
		out.Assignments = append(out.Assignments, *r)
	}
	sort.Slice(out.Assignments, func(i, j int) bool {
		x, y := out.Assignments[i], out.Assignments[j]
		if x.SubjectName != y.SubjectName {
			return x.SubjectName < y.SubjectName
		}
		if x.StaffName != y.StaffName {
			return x.StaffName < y.StaffName
		}
		return x.AssignmentID < y.AssignmentID
	})
	return out, nil
}

// ═══════════════════════════════════════════════════════════
// ExportDepartment 院系评教汇总导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 表头: | 课程 | 教师 | 份数 | 总体均分 | <评分项1> | <评分项2> | ...
// 评分项列为所有分配评分项的并集（按名称排序），缺失记为 "-"。

func (s *reportService) ExportDepartment(ctx context.Context, departmentID string, caller Caller) (*bytes.Buffer, string, error) {
	report, err := s.DepartmentSummary(ctx, departmentID, caller)
	if err != nil {
		return nil, "", err
	}
	dept, err := s.repo.Department.GetByID(ctx, report.DepartmentID)
	if err != nil {
		return nil, "", err
	}

	questionSet := make(map[string]bool)
	for _, a := range report.Assignments {
		for q := range a.Averages {
			questionSet[q] = true
		}
	}
	questions := make([]string, 0, len(questionSet))
	for q := range questionSet {
		questions = append(questions, q)
	}
	sort.Strings(questions)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "评教汇总"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "B", 24)
	f.SetColWidth(sheetName, "C", "D", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	lastCol := colName(3 + len(questions))
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 评教汇总", dept.Name))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := append([]string{"课程", "教师", "份数", "总体均分"}, questions...)
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	row := 3
	for _, a := range report.Assignments {
		f.SetCellValue(sheetName, cell("A", row), a.SubjectName)
		f.SetCellValue(sheetName, cell("B", row), a.StaffName)
		f.SetCellValue(sheetName, cell("C", row), a.Responses)
		if a.Responses > 0 {
			f.SetCellValue(sheetName, cell("D", row), a.Overall)
		} else {
			f.SetCellValue(sheetName, cell("D", row), "-")
		}
		for i, q := range questions {
			if avg, ok := a.Averages[q]; ok {
				f.SetCellValue(sheetName, cell(colName(4+i), row), avg)
			} else {
				f.SetCellValue(sheetName, cell(colName(4+i), row), "-")
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}

	filename := fmt.Sprintf("评教汇总_%s.xlsx", dept.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

// summarize 按评分项求均值；总体均分为全部评分的均值。保留两位小数。
func summarize(feedback []model.Feedback) *dto.AssignmentReport {
	sums := make(map[string]int)
	counts := make(map[string]int)
	total, n := 0, 0
	for _, fb := range feedback {
		for q, v := range fb.Ratings.Data() {
			sums[q] += v
			counts[q]++
			total += v
			n++
		}
	}

	averages := make(map[string]float64, len(sums))
	for q, sum := range sums {
		averages[q] = round2(float64(sum) / float64(counts[q]))
	}
	overall := 0.0
	if n > 0 {
		overall = round2(float64(total) / float64(n))
	}
	return &dto.AssignmentReport{
		Responses: len(feedback),
		Averages:  averages,
		Overall:   overall,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
