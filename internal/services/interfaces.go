package services

import (
	"context"
	"time"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
	"github.com/ncst-capstone/evaluation-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Requests live in the validator package so struct rules sit next to
// the shared Validator.
type SubmitEvaluationRequest = validator.SubmitEvaluationRequest
type RegisterStudentRequest = validator.RegisterStudentRequest
type UpdateStudentRequest = validator.UpdateStudentRequest
type CreateTeacherRequest = validator.CreateTeacherRequest
type UpdateTeacherRequest = validator.UpdateTeacherRequest
type LoginRequest = validator.LoginRequest
type AddQuestionRequest = validator.AddQuestionRequest
type BulkUpdateQuestionsRequest = validator.BulkUpdateQuestionsRequest

type EvaluationResponse struct {
	EvaluationID uint      `json:"evaluation_id"`
	TeacherID    uint      `json:"teacher_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	RatingCount  int       `json:"rating_count"`
}

type StudentProgressResponse struct {
	TotalTeachers     int64 `json:"total_teachers"`
	EvaluatedTeachers int64 `json:"evaluated_teachers"`
	RemainingTeachers int64 `json:"remaining_teachers"`
}

type TeacherSummaryResponse struct {
	Teacher          *models.Teacher `json:"teacher"`
	EvaluationCount  int64           `json:"evaluation_count"`
	ApprovedStudents int64           `json:"approved_students"`
	OverallAverage   *float64        `json:"overall_average"`
}

type TeacherReportResponse struct {
	Teacher        *models.Teacher                  `json:"teacher"`
	QuestionStats  []*repositories.QuestionStatsRow `json:"question_stats"`
	OverallAverage *float64                         `json:"overall_average"`
	Remarks        []*repositories.RemarkRow        `json:"remarks"`
}

type AdminOverviewResponse struct {
	TotalTeachers   int64 `json:"total_teachers"`
	TotalStudents   int64 `json:"total_students"`
	TotalQuestions  int64 `json:"total_questions"`
	PendingStudents int64 `json:"pending_students"`
}

type LoginResponse struct {
	Token       string      `json:"token"`
	Role        models.Role `json:"role"`
	DisplayName string      `json:"display_name"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// RatingScale is the configured inclusive bound for rating values.
type RatingScale struct {
	Min int
	Max int
}

// DefaultRatingScale matches the questionnaire the system ships with.
var DefaultRatingScale = RatingScale{Min: 1, Max: 5}

// ===== SERVICE INTERFACES =====

// EvaluationService validates and persists evaluation submissions.
type EvaluationService interface {
	// Submit records one evaluation atomically: header plus one detail
	// row per active roster question, or nothing.
	Submit(ctx context.Context, actor models.Actor, req *SubmitEvaluationRequest) (*EvaluationResponse, error)

	// PendingTeachers lists teachers the student has not evaluated yet,
	// last name ascending.
	PendingTeachers(ctx context.Context, actor models.Actor) ([]*models.Teacher, error)

	// Progress reports evaluated vs. remaining teacher counts for the
	// student dashboard.
	Progress(ctx context.Context, actor models.Actor) (*StudentProgressResponse, error)
}

// ReportService computes evaluation aggregates. Reads only; every call
// re-aggregates from storage.
type ReportService interface {
	QuestionStats(ctx context.Context, actor models.Actor, teacherID uint) ([]*repositories.QuestionStatsRow, error)
	OverallAverage(ctx context.Context, actor models.Actor, teacherID uint) (*float64, error)
	RemarksFeed(ctx context.Context, actor models.Actor, teacherID uint) ([]*repositories.RemarkRow, error)
	TeacherSummary(ctx context.Context, actor models.Actor, teacherID uint) (*TeacherSummaryResponse, error)
	TeacherReport(ctx context.Context, actor models.Actor, teacherID uint) (*TeacherReportResponse, error)
	AdminOverview(ctx context.Context, actor models.Actor) (*AdminOverviewResponse, error)
}

// RosterService manages the questionnaire.
type RosterService interface {
	List(ctx context.Context) ([]*models.Question, error)
	Add(ctx context.Context, actor models.Actor, req *AddQuestionRequest) (*models.Question, error)

	// BulkUpdateText updates text per question ID, silently skipping
	// IDs that no longer exist.
	BulkUpdateText(ctx context.Context, actor models.Actor, texts map[uint]string) error

	// Delete removes a question with no recorded ratings and
	// re-sequences the remaining roster to a dense 1..N, atomically.
	Delete(ctx context.Context, actor models.Actor, questionID uint) error
}

// AccountService covers registration, login and admin account CRUD.
type AccountService interface {
	RegisterStudent(ctx context.Context, req *RegisterStudentRequest) (*models.Student, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)

	GetStudent(ctx context.Context, actor models.Actor, schoolID string) (*models.Student, error)
	UpdateStudent(ctx context.Context, actor models.Actor, schoolID string, req *UpdateStudentRequest) (*models.Student, error)
	ApproveStudent(ctx context.Context, actor models.Actor, schoolID string) error
	ListStudents(ctx context.Context, actor models.Actor) ([]*models.Student, error)
	PendingStudents(ctx context.Context, actor models.Actor) ([]*models.Student, error)

	GetTeacher(ctx context.Context, actor models.Actor, id uint) (*models.Teacher, error)
	CreateTeacher(ctx context.Context, actor models.Actor, req *CreateTeacherRequest) (*models.Teacher, error)
	UpdateTeacher(ctx context.Context, actor models.Actor, id uint, req *UpdateTeacherRequest) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, actor models.Actor, id uint) error
	ListTeachers(ctx context.Context, actor models.Actor) ([]*models.Teacher, error)
}

// NotificationEventService publishes lifecycle events for downstream
// consumers. Publish failures are logged, never propagated into the
// triggering operation.
type NotificationEventService interface {
	EvaluationSubmitted(ctx context.Context, evaluationID uint, studentID string, teacherID uint)
	StudentApproved(ctx context.Context, schoolID string)
}

// ExportService renders admin reports.
type ExportService interface {
	// TeacherResultsWorkbook builds an xlsx with per-question stats and
	// remarks for one teacher.
	TeacherResultsWorkbook(ctx context.Context, actor models.Actor, teacherID uint) ([]byte, error)
}

// ServiceManager wires and owns all services.
type ServiceManager interface {
	Evaluation() EvaluationService
	Report() ReportService
	Roster() RosterService
	Account() AccountService
	Notification() NotificationEventService
	Export() ExportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
