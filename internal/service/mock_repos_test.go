package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/model"
	"github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/internal/repository"
	pkgerrors "github.com/SwapnilSonawane894/spiot-feedback-portal-sub002/pkg/errors"
)

// refKey / refMatch 与仓储层文本引用列的比较规则一致：忽略大小写与首尾空白
func refKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func refMatch(col, arg string) bool { return refKey(col) == refKey(arg) }

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return pkgerrors.ErrDuplicate
		}
	}
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, f repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.DepartmentID != "" && !refMatch(model.StrVal(u.DepartmentID), f.DepartmentID) {
			continue
		}
		if f.Keyword != "" && !strings.Contains(u.Name, f.Keyword) && !strings.Contains(u.Email, f.Keyword) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	total := int64(len(result))
	if offset >= len(result) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	departments map[string]*model.Department
	members     map[string]int64 // 由测试直接设置
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{
		departments: make(map[string]*model.Department),
		members:     make(map[string]int64),
	}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = uuid.NewString()
	}
	if dept.Version == 0 {
		dept.Version = 1
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	stored, ok := m.departments[dept.DepartmentID]
	if !ok || stored.Version != dept.Version {
		return pkgerrors.ErrOptimisticLock
	}
	dept.Version++
	cp := *dept
	m.departments[dept.DepartmentID] = &cp
	return nil
}

func (m *mockDeptRepo) SetFeedbackActive(_ context.Context, id string, active bool, _ string) error {
	d, ok := m.departments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.IsFeedbackActive = active
	d.Version++
	return nil
}

func (m *mockDeptRepo) SetHOD(_ context.Context, id string, userID string) error {
	d, ok := m.departments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.HODUserID = &userID
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.departments, id)
	return nil
}

func (m *mockDeptRepo) CountMembers(_ context.Context, departmentID string) (int64, error) {
	return m.members[departmentID], nil
}

// ── Mock AcademicYearRepository ──

type mockYearRepo struct {
	years map[string]*model.AcademicYear
}

func newMockYearRepo() *mockYearRepo {
	return &mockYearRepo{years: make(map[string]*model.AcademicYear)}
}

func (m *mockYearRepo) Create(_ context.Context, y *model.AcademicYear) error {
	if y.AcademicYearID == "" {
		y.AcademicYearID = uuid.NewString()
	}
	m.years[y.AcademicYearID] = y
	return nil
}

func (m *mockYearRepo) GetByID(_ context.Context, id string) (*model.AcademicYear, error) {
	if y, ok := m.years[id]; ok {
		return y, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockYearRepo) List(_ context.Context) ([]model.AcademicYear, error) {
	var result []model.AcademicYear
	for _, y := range m.years {
		result = append(result, *y)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockYearRepo) Update(_ context.Context, y *model.AcademicYear) error {
	m.years[y.AcademicYearID] = y
	return nil
}

func (m *mockYearRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.years, id)
	return nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) Create(_ context.Context, s *model.Subject) error {
	if s.SubjectID == "" {
		s.SubjectID = uuid.NewString()
	}
	m.subjects[s.SubjectID] = s
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) ListByIDs(_ context.Context, ids []string) ([]model.Subject, error) {
	result := []model.Subject{}
	for _, id := range ids {
		if s, ok := m.subjects[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSubjectRepo) List(_ context.Context) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, s *model.Subject) error {
	m.subjects[s.SubjectID] = s
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.subjects, id)
	return nil
}

// ── Mock DepartmentSubjectRepository ──

type mockLinkRepo struct {
	links []*model.DepartmentSubject
	err   error // 非空时所有查询返回该错误
}

func newMockLinkRepo() *mockLinkRepo {
	return &mockLinkRepo{}
}

func (m *mockLinkRepo) Create(_ context.Context, l *model.DepartmentSubject) error {
	for _, e := range m.links {
		if e.DepartmentID == l.DepartmentID && e.SubjectID == l.SubjectID &&
			model.StrVal(e.AcademicYearID) == model.StrVal(l.AcademicYearID) {
			return pkgerrors.ErrDuplicate
		}
	}
	if l.LinkID == "" {
		l.LinkID = uuid.NewString()
	}
	m.links = append(m.links, l)
	return nil
}

func (m *mockLinkRepo) GetByID(_ context.Context, id string) (*model.DepartmentSubject, error) {
	for _, l := range m.links {
		if l.LinkID == id {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLinkRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.DepartmentSubject, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := []model.DepartmentSubject{}
	for _, l := range m.links {
		if refMatch(l.DepartmentID, departmentID) {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockLinkRepo) ListBySubject(_ context.Context, subjectID string) ([]model.DepartmentSubject, error) {
	result := []model.DepartmentSubject{}
	for _, l := range m.links {
		if refMatch(l.SubjectID, subjectID) {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockLinkRepo) Delete(_ context.Context, id string) error {
	for i, l := range m.links {
		if l.LinkID == id {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff map[string]*model.Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, s *model.Staff) error {
	if s.StaffID == "" {
		s.StaffID = uuid.NewString()
	}
	m.staff[s.StaffID] = s
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) GetByUserID(_ context.Context, userID string) (*model.Staff, error) {
	for _, s := range m.staff {
		if refMatch(s.UserID, userID) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) ListByIDs(_ context.Context, ids []string) ([]model.Staff, error) {
	result := []model.Staff{}
	for _, id := range ids {
		if s, ok := m.staff[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStaffRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.Staff, error) {
	result := []model.Staff{}
	for _, s := range m.staff {
		if refMatch(model.StrVal(s.DepartmentID), departmentID) {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStaffRepo) Update(_ context.Context, s *model.Staff) error {
	m.staff[s.StaffID] = s
	return nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.staff, id)
	return nil
}

// ── Mock FacultyAssignmentRepository ──

type mockAssignmentRepo struct {
	assignments []*model.FacultyAssignment
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.FacultyAssignment) error {
	if a.AssignmentID == "" {
		a.AssignmentID = uuid.NewString()
	}
	m.assignments = append(m.assignments, a)
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.FacultyAssignment, error) {
	for _, a := range m.assignments {
		if a.AssignmentID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListBySubjectIDs(_ context.Context, subjectIDs []string) ([]model.FacultyAssignment, error) {
	set := make(map[string]bool, len(subjectIDs))
	for _, id := range subjectIDs {
		set[refKey(id)] = true
	}
	result := []model.FacultyAssignment{}
	for _, a := range m.assignments {
		if set[refKey(a.SubjectID)] {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.FacultyAssignment, error) {
	result := []model.FacultyAssignment{}
	for _, a := range m.assignments {
		if refMatch(model.StrVal(a.DepartmentID), departmentID) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByStaff(_ context.Context, staffID string) ([]model.FacultyAssignment, error) {
	result := []model.FacultyAssignment{}
	for _, a := range m.assignments {
		if refMatch(a.StaffID, staffID) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	for i, a := range m.assignments {
		if a.AssignmentID == id {
			m.assignments = append(m.assignments[:i], m.assignments[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Mock FeedbackRepository ──

type mockFeedbackRepo struct {
	feedback []*model.Feedback
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{}
}

// Create 模拟 (student_id, assignment_id) 唯一索引
func (m *mockFeedbackRepo) Create(_ context.Context, fb *model.Feedback) error {
	for _, e := range m.feedback {
		if e.StudentID == fb.StudentID && e.AssignmentID == fb.AssignmentID {
			return gorm.ErrDuplicatedKey
		}
	}
	if fb.FeedbackID == "" {
		fb.FeedbackID = uuid.NewString()
	}
	m.feedback = append(m.feedback, fb)
	return nil
}

func (m *mockFeedbackRepo) SubmittedAssignmentIDs(_ context.Context, studentID string, assignmentIDs []string) ([]string, error) {
	set := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		set[id] = true
	}
	result := []string{}
	for _, fb := range m.feedback {
		if fb.StudentID == studentID && set[fb.AssignmentID] {
			result = append(result, fb.AssignmentID)
		}
	}
	return result, nil
}

func (m *mockFeedbackRepo) ListByStudent(_ context.Context, studentID string) ([]model.Feedback, error) {
	result := []model.Feedback{}
	for _, fb := range m.feedback {
		if fb.StudentID == studentID {
			result = append(result, *fb)
		}
	}
	return result, nil
}

func (m *mockFeedbackRepo) ListByAssignmentIDs(_ context.Context, assignmentIDs []string) ([]model.Feedback, error) {
	set := make(map[string]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		set[id] = true
	}
	result := []model.Feedback{}
	for _, fb := range m.feedback {
		if set[fb.AssignmentID] {
			result = append(result, *fb)
		}
	}
	return result, nil
}

// ── 聚合 ──

type mockRepos struct {
	users       *mockUserRepo
	depts       *mockDeptRepo
	years       *mockYearRepo
	subjects    *mockSubjectRepo
	links       *mockLinkRepo
	staff       *mockStaffRepo
	assignments *mockAssignmentRepo
	feedback    *mockFeedbackRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:       newMockUserRepo(),
		depts:       newMockDeptRepo(),
		years:       newMockYearRepo(),
		subjects:    newMockSubjectRepo(),
		links:       newMockLinkRepo(),
		staff:       newMockStaffRepo(),
		assignments: newMockAssignmentRepo(),
		feedback:    newMockFeedbackRepo(),
	}
	repo := &repository.Repository{
		User:              m.users,
		Department:        m.depts,
		AcademicYear:      m.years,
		Subject:           m.subjects,
		DepartmentSubject: m.links,
		Staff:             m.staff,
		FacultyAssignment: m.assignments,
		Feedback:          m.feedback,
	}
	repo.Tx = mockTx{repo: repo}
	return repo, m
}

// mockTx 直接在同一聚合上执行，不模拟回滚
type mockTx struct {
	repo *repository.Repository
}

func (t mockTx) Transaction(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	return fn(t.repo)
}
