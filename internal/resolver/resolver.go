// Package resolver 计算学生需要评教的任务列表。
//
// 输入为一次请求内读出的数据快照（学生、院系、院系-课程关联、任课分配、课程、教师），
// 输出为确定顺序的任务列表。本包不做 I/O，也不修改输入。
package resolver

import (
	"sort"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/refid"
)

// Options 任务解析选项（仅此两项影响结果）
type Options struct {
	GroupBySubject            bool
	AllowAcademicYearFallback bool
}

// Input 解析所需数据快照
type Input struct {
	Student     *model.User
	Department  *model.Department
	Links       []model.DepartmentSubject
	Assignments []model.FacultyAssignment
	Subjects    []model.Subject
	Staff       []model.Staff
}

// StaffRef 任务中的一位任课教师
type StaffRef struct {
	StaffID      string
	Name         string
	AssignmentID string
}

// Task 一条评教任务
//
// 不分组时 AssignmentIDs / Staff 只有一项；按课程分组时列出该课程的全部任课教师。
type Task struct {
	AssignmentID   string
	AssignmentIDs  []string
	SubjectID      string
	SubjectName    string
	SubjectCode    string
	Staff          []StaffRef
	AcademicYearID *string
}

// StaffIDs 返回任务涉及的教师 ID
func (t *Task) StaffIDs() []string {
	ids := make([]string, 0, len(t.Staff))
	for _, s := range t.Staff {
		ids = append(ids, s.StaffID)
	}
	return ids
}

// Eligible 学生是否满足解析前置条件：角色为学生、院系可解析、院系存在且开启评教
func Eligible(student *model.User, dept *model.Department) (refid.ID, bool) {
	if student == nil || !student.IsStudent() {
		return refid.ID{}, false
	}
	deptID, ok, err := refid.ParsePtr(student.DepartmentID)
	if err != nil || !ok {
		return refid.ID{}, false
	}
	if dept == nil || !dept.IsFeedbackActive {
		return refid.ID{}, false
	}
	if own, err := refid.Parse(dept.DepartmentID); err != nil || own != deptID {
		return refid.ID{}, false
	}
	return deptID, true
}

// StudentYear 学生学年；缺失或非法视为 Unknown
func StudentYear(student *model.User) EffectiveYear {
	id, ok, err := refid.ParsePtr(student.AcademicYearID)
	if err != nil || !ok {
		return Unknown()
	}
	return Known(id)
}

// LinkedSubjectIDs 院系关联到的课程 ID 集合（非法引用被丢弃）
func LinkedSubjectIDs(deptID refid.ID, links []model.DepartmentSubject) refid.Set {
	set := make(refid.Set)
	for i := range links {
		d, err := refid.Parse(links[i].DepartmentID)
		if err != nil || d != deptID {
			continue
		}
		s, err := refid.Parse(links[i].SubjectID)
		if err != nil {
			continue
		}
		set.Add(s)
	}
	return set
}

// candidate 通过学年过滤的单条分配
type candidate struct {
	assignmentID string
	subjectID    refid.ID
	staffID      refid.ID
	year         EffectiveYear
}

// Resolve 计算学生的评教任务
//
// 不满足前置条件时返回空切片而非错误；非法引用不产生任务。
func Resolve(in Input, opts Options) []Task {
	deptID, ok := Eligible(in.Student, in.Department)
	if !ok {
		return []Task{}
	}

	subjectSet := LinkedSubjectIDs(deptID, in.Links)
	if len(subjectSet) == 0 {
		return []Task{}
	}

	linkYears := make(map[refid.ID][]*string)
	for i := range in.Links {
		d, err := refid.Parse(in.Links[i].DepartmentID)
		if err != nil || d != deptID {
			continue
		}
		s, err := refid.Parse(in.Links[i].SubjectID)
		if err != nil {
			continue
		}
		linkYears[s] = append(linkYears[s], in.Links[i].AcademicYearID)
	}

	subjects := make(map[refid.ID]*model.Subject, len(in.Subjects))
	for i := range in.Subjects {
		if id, err := refid.Parse(in.Subjects[i].SubjectID); err == nil {
			subjects[id] = &in.Subjects[i]
		}
	}
	staffNames := make(map[refid.ID]string, len(in.Staff))
	for i := range in.Staff {
		if id, err := refid.Parse(in.Staff[i].StaffID); err == nil {
			staffNames[id] = in.Staff[i].Name
		}
	}

	policy := PolicyFor(opts)
	student := StudentYear(in.Student)

	var kept []candidate
	for i := range in.Assignments {
		a := &in.Assignments[i]
		subjectID, err := refid.Parse(a.SubjectID)
		if err != nil || !subjectSet.Has(subjectID) {
			continue
		}
		staffID, err := refid.Parse(a.StaffID)
		if err != nil {
			continue
		}
		eff, ok := resolveEffectiveYear(a, subjects[subjectID], linkYears[subjectID], student)
		if !ok || !policy.Accepts(eff, student) {
			continue
		}
		kept = append(kept, candidate{
			assignmentID: a.AssignmentID,
			subjectID:    subjectID,
			staffID:      staffID,
			year:         eff,
		})
	}

	subjectName := func(id refid.ID) (string, string) {
		if s, ok := subjects[id]; ok {
			return s.Name, s.Code
		}
		return "", ""
	}

	sort.Slice(kept, func(i, j int) bool {
		ni, _ := subjectName(kept[i].subjectID)
		nj, _ := subjectName(kept[j].subjectID)
		if ni != nj {
			return ni < nj
		}
		if kept[i].subjectID != kept[j].subjectID {
			return kept[i].subjectID.String() < kept[j].subjectID.String()
		}
		if kept[i].staffID != kept[j].staffID {
			return kept[i].staffID.String() < kept[j].staffID.String()
		}
		return kept[i].assignmentID < kept[j].assignmentID
	})

	tasks := make([]Task, 0, len(kept))
	index := make(map[refid.ID]int)
	for _, c := range kept {
		ref := StaffRef{
			StaffID:      c.staffID.String(),
			Name:         staffNames[c.staffID],
			AssignmentID: c.assignmentID,
		}

		if opts.GroupBySubject {
			if i, ok := index[c.subjectID]; ok {
				t := &tasks[i]
				t.AssignmentIDs = append(t.AssignmentIDs, c.assignmentID)
				t.Staff = append(t.Staff, ref)
				if t.AcademicYearID == nil {
					t.AcademicYearID = c.year.Ptr()
				}
				continue
			}
			index[c.subjectID] = len(tasks)
		}

		name, code := subjectName(c.subjectID)
		tasks = append(tasks, Task{
			AssignmentID:   c.assignmentID,
			AssignmentIDs:  []string{c.assignmentID},
			SubjectID:      c.subjectID.String(),
			SubjectName:    name,
			SubjectCode:    code,
			Staff:          []StaffRef{ref},
			AcademicYearID: c.year.Ptr(),
		})
	}

	return tasks
}
