package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
)

// mockRepository is an in-memory repositories.Repository. Transactions
// run against the same store; rollback is not simulated, so tests that
// care about atomicity assert on the error paths before any write.
type mockRepository struct {
	mu sync.Mutex

	students    map[string]*models.Student
	teachers    map[uint]*models.Teacher
	admins      map[uint]*models.Admin
	questions   map[uint]*models.Question
	evaluations []*models.Evaluation

	nextTeacherID    uint
	nextQuestionID   uint
	nextEvaluationID uint

	// forcedErr, when set, is returned by every subsequent call.
	forcedErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		students:       make(map[string]*models.Student),
		teachers:       make(map[uint]*models.Teacher),
		admins:         make(map[uint]*models.Admin),
		questions:      make(map[uint]*models.Question),
		nextTeacherID:  1,
		nextQuestionID: 1,
	}
}

func (m *mockRepository) Student() repositories.StudentRepository       { return (*mockStudentRepo)(m) }
func (m *mockRepository) Teacher() repositories.TeacherRepository       { return (*mockTeacherRepo)(m) }
func (m *mockRepository) Admin() repositories.AdminRepository           { return (*mockAdminRepo)(m) }
func (m *mockRepository) Question() repositories.QuestionRepository     { return (*mockQuestionRepo)(m) }
func (m *mockRepository) Evaluation() repositories.EvaluationRepository { return (*mockEvaluationRepo)(m) }
func (m *mockRepository) Report() repositories.ReportRepository         { return (*mockReportRepo)(m) }

func (m *mockRepository) WithTransaction(_ context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(context.Context) error { return nil }
func (m *mockRepository) Close() error               { return nil }

// ===== SEED HELPERS =====

func (m *mockRepository) seedStudent(schoolID, password string, status models.StudentStatus) *models.Student {
	student := &models.Student{
		SchoolID:  schoolID,
		Password:  password,
		Email:     schoolID + "@example.edu",
		FirstName: "Student",
		LastName:  schoolID,
		YearLevel: "3rd Year",
		Status:    status,
	}
	m.students[schoolID] = student
	return student
}

func (m *mockRepository) seedTeacher(username, course string) *models.Teacher {
	teacher := &models.Teacher{
		ID:        m.nextTeacherID,
		Username:  username,
		Email:     username + "@example.edu",
		FirstName: "Teacher",
		LastName:  username,
		Course:    course,
	}
	m.nextTeacherID++
	m.teachers[teacher.ID] = teacher
	return teacher
}

func (m *mockRepository) seedQuestion(text string) *models.Question {
	question := &models.Question{
		ID:    m.nextQuestionID,
		Text:  text,
		Order: len(m.questions) + 1,
	}
	m.nextQuestionID++
	m.questions[question.ID] = question
	return question
}

func (m *mockRepository) orderedQuestions() []*models.Question {
	out := make([]*models.Question, 0, len(m.questions))
	for _, q := range m.questions {
		copied := *q
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// ===== STUDENTS =====

type mockStudentRepo mockRepository

func (r *mockStudentRepo) Create(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	if _, ok := r.students[student.SchoolID]; ok {
		return repositories.ErrDuplicate
	}
	copied := *student
	r.students[student.SchoolID] = &copied
	return nil
}

func (r *mockStudentRepo) GetBySchoolID(_ context.Context, schoolID string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	student, ok := r.students[schoolID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *student
	return &copied, nil
}

func (r *mockStudentRepo) Update(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	if _, ok := r.students[student.SchoolID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *student
	r.students[student.SchoolID] = &copied
	return nil
}

func (r *mockStudentRepo) List(_ context.Context, filters repositories.StudentFilters) ([]*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	out := make([]*models.Student, 0, len(r.students))
	for _, s := range r.students {
		if filters.Status != nil && s.Status != *filters.Status {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].Status == models.StudentPending) != (out[j].Status == models.StudentPending) {
			return out[i].Status == models.StudentPending
		}
		return out[i].LastName < out[j].LastName
	})
	return out, nil
}

func (r *mockStudentRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.students)), r.forcedErr
}

func (r *mockStudentRepo) CountByStatus(_ context.Context, status models.StudentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return 0, r.forcedErr
	}
	var n int64
	for _, s := range r.students {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

// ===== TEACHERS =====

type mockTeacherRepo mockRepository

func (r *mockTeacherRepo) Create(_ context.Context, teacher *models.Teacher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	for _, t := range r.teachers {
		if t.Username == teacher.Username {
			return repositories.ErrDuplicate
		}
	}
	teacher.ID = r.nextTeacherID
	r.nextTeacherID++
	copied := *teacher
	r.teachers[teacher.ID] = &copied
	return nil
}

func (r *mockTeacherRepo) GetByID(_ context.Context, id uint) (*models.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	teacher, ok := r.teachers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *teacher
	return &copied, nil
}

func (r *mockTeacherRepo) GetByUsername(_ context.Context, username string) (*models.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	for _, t := range r.teachers {
		if t.Username == username {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockTeacherRepo) Update(_ context.Context, teacher *models.Teacher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	if _, ok := r.teachers[teacher.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *teacher
	r.teachers[teacher.ID] = &copied
	return nil
}

func (r *mockTeacherRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	if _, ok := r.teachers[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, e := range r.evaluations {
		if e.TeacherID == id {
			return repositories.ErrForeignKeyViolated
		}
	}
	delete(r.teachers, id)
	return nil
}

func (r *mockTeacherRepo) List(context.Context) ([]*models.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	out := make([]*models.Teacher, 0, len(r.teachers))
	for _, t := range r.teachers {
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Course != out[j].Course {
			return out[i].Course < out[j].Course
		}
		return out[i].LastName < out[j].LastName
	})
	return out, nil
}

func (r *mockTeacherRepo) ListNotEvaluatedBy(_ context.Context, studentID string) ([]*models.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	evaluated := make(map[uint]bool)
	for _, e := range r.evaluations {
		if e.StudentID == studentID {
			evaluated[e.TeacherID] = true
		}
	}
	out := make([]*models.Teacher, 0, len(r.teachers))
	for _, t := range r.teachers {
		if !evaluated[t.ID] {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (r *mockTeacherRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.teachers)), r.forcedErr
}

// ===== ADMINS =====

type mockAdminRepo mockRepository

func (r *mockAdminRepo) GetByID(_ context.Context, id uint) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	admin, ok := r.admins[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *admin
	return &copied, nil
}

func (r *mockAdminRepo) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	for _, a := range r.admins {
		if a.Username == username {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// ===== QUESTIONS =====

type mockQuestionRepo mockRepository

func (r *mockQuestionRepo) Create(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	question.ID = r.nextQuestionID
	r.nextQuestionID++
	copied := *question
	r.questions[question.ID] = &copied
	return nil
}

func (r *mockQuestionRepo) GetByID(_ context.Context, id uint) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	question, ok := r.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *question
	return &copied, nil
}

func (r *mockQuestionRepo) Update(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	if _, ok := r.questions[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *question
	r.questions[question.ID] = &copied
	return nil
}

func (r *mockQuestionRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	if _, ok := r.questions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.questions, id)
	return nil
}

func (r *mockQuestionRepo) ListOrdered(context.Context) ([]*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}
	return (*mockRepository)(r).orderedQuestions(), nil
}

func (r *mockQuestionRepo) MaxOrder(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return 0, r.forcedErr
	}
	max := 0
	for _, q := range r.questions {
		if q.Order > max {
			max = q.Order
		}
	}
	return max, nil
}

func (r *mockQuestionRepo) UpdateOrder(_ context.Context, id uint, order int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	question, ok := r.questions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	question.Order = order
	return nil
}

func (r *mockQuestionRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.questions)), r.forcedErr
}

func (r *mockQuestionRepo) DetailCount(_ context.Context, questionID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return 0, r.forcedErr
	}
	var n int64
	for _, e := range r.evaluations {
		for _, d := range e.Details {
			if d.QuestionID == questionID {
				n++
			}
		}
	}
	return n, nil
}

// ===== EVALUATIONS =====

type mockEvaluationRepo mockRepository

func (r *mockEvaluationRepo) Create(_ context.Context, evaluation *models.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return r.forcedErr
	}
	for _, e := range r.evaluations {
		if e.StudentID == evaluation.StudentID && e.TeacherID == evaluation.TeacherID {
			return repositories.ErrDuplicate
		}
	}
	r.nextEvaluationID++
	evaluation.ID = r.nextEvaluationID
	copied := *evaluation
	r.evaluations = append(r.evaluations, &copied)
	return nil
}

func (r *mockEvaluationRepo) Exists(_ context.Context, studentID string, teacherID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return false, r.forcedErr
	}
	for _, e := range r.evaluations {
		if e.StudentID == studentID && e.TeacherID == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockEvaluationRepo) CountByTeacher(_ context.Context, teacherID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return 0, r.forcedErr
	}
	var n int64
	for _, e := range r.evaluations {
		if e.TeacherID == teacherID {
			n++
		}
	}
	return n, nil
}

func (r *mockEvaluationRepo) CountDistinctTeachersByStudent(_ context.Context, studentID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return 0, r.forcedErr
	}
	seen := make(map[uint]bool)
	for _, e := range r.evaluations {
		if e.StudentID == studentID {
			seen[e.TeacherID] = true
		}
	}
	return int64(len(seen)), nil
}

// ===== REPORTS =====

type mockReportRepo mockRepository

func (r *mockReportRepo) QuestionStats(_ context.Context, teacherID uint) ([]*repositories.QuestionStatsRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}

	rows := make([]*repositories.QuestionStatsRow, 0, len(r.questions))
	for _, q := range (*mockRepository)(r).orderedQuestions() {
		row := &repositories.QuestionStatsRow{
			QuestionID:   q.ID,
			QuestionText: q.Text,
		}
		var sum int
		for _, e := range r.evaluations {
			if e.TeacherID != teacherID {
				continue
			}
			for _, d := range e.Details {
				if d.QuestionID == q.ID {
					sum += d.Value
					row.ResponseCount++
				}
			}
		}
		if row.ResponseCount > 0 {
			avg := float64(sum) / float64(row.ResponseCount)
			row.AverageRating = &avg
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *mockReportRepo) OverallAverage(_ context.Context, teacherID uint) (*float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}

	var sum, count int
	for _, e := range r.evaluations {
		if e.TeacherID != teacherID {
			continue
		}
		for _, d := range e.Details {
			sum += d.Value
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(count)
	return &avg, nil
}

func (r *mockReportRepo) Remarks(_ context.Context, teacherID uint, withYearLevel bool) ([]*repositories.RemarkRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedErr != nil {
		return nil, r.forcedErr
	}

	var rows []*repositories.RemarkRow
	for _, e := range r.evaluations {
		if e.TeacherID != teacherID || e.Remarks == nil || strings.TrimSpace(*e.Remarks) == "" {
			continue
		}
		row := &repositories.RemarkRow{
			Remarks:     *e.Remarks,
			SubmittedAt: e.SubmittedAt,
		}
		if withYearLevel {
			if student, ok := r.students[e.StudentID]; ok {
				row.YearLevel = student.YearLevel
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SubmittedAt.After(rows[j].SubmittedAt) })
	return rows, nil
}
