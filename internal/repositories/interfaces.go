package repositories

import (
	"context"
	"time"

	"github.com/ncst-capstone/evaluation-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type StudentFilters struct {
	Status *models.StudentStatus
	Limit  int
	Offset int
}

// ===== AGGREGATION ROW STRUCTS =====

// QuestionStatsRow is one row of the per-question report for a teacher.
// AverageRating is nil when the question has no responses yet.
type QuestionStatsRow struct {
	QuestionID    uint     `json:"question_id"`
	QuestionText  string   `json:"question_text"`
	AverageRating *float64 `json:"average_rating"`
	ResponseCount int64    `json:"response_count"`
}

type RemarkRow struct {
	Remarks     string    `json:"remarks"`
	SubmittedAt time.Time `json:"submitted_at"`
	YearLevel   string    `json:"year_level,omitempty"`
}

// ===== REPOSITORY INTERFACES =====

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetBySchoolID(ctx context.Context, schoolID string) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	List(ctx context.Context, filters StudentFilters) ([]*models.Student, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.StudentStatus) (int64, error)
}

type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id uint) (*models.Teacher, error)
	GetByUsername(ctx context.Context, username string) (*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.Teacher, error)
	ListNotEvaluatedBy(ctx context.Context, studentID string) ([]*models.Teacher, error)
	Count(ctx context.Context) (int64, error)
}

type AdminRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	ListOrdered(ctx context.Context) ([]*models.Question, error)
	MaxOrder(ctx context.Context) (int, error)
	UpdateOrder(ctx context.Context, id uint, order int) error
	Count(ctx context.Context) (int64, error)
	DetailCount(ctx context.Context, questionID uint) (int64, error)
}

type EvaluationRepository interface {
	// Create inserts the evaluation header together with its detail rows.
	// A unique-index violation on (student_id, teacher_id) surfaces as a
	// duplicate error, never a partial write.
	Create(ctx context.Context, evaluation *models.Evaluation) error
	Exists(ctx context.Context, studentID string, teacherID uint) (bool, error)
	CountByTeacher(ctx context.Context, teacherID uint) (int64, error)
	CountDistinctTeachersByStudent(ctx context.Context, studentID string) (int64, error)
}

// ReportRepository covers the read-only aggregate queries. Every call
// re-aggregates from the base tables; there is no materialized summary.
type ReportRepository interface {
	QuestionStats(ctx context.Context, teacherID uint) ([]*QuestionStatsRow, error)
	OverallAverage(ctx context.Context, teacherID uint) (*float64, error)
	Remarks(ctx context.Context, teacherID uint, withYearLevel bool) ([]*RemarkRow, error)
}
