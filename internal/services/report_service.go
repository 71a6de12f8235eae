package services

import (
	"context"
	"log/slog"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

// canViewTeacher gates report reads: a teacher sees only their own
// results, an admin sees anyone's, students see none.
func (s *reportService) canViewTeacher(actor models.Actor, teacherID uint) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleTeacher:
		if actor.TeacherID == teacherID {
			return nil
		}
		return NewNotAuthorizedError("teachers may only view their own results")
	default:
		return ErrNotPermitted
	}
}

func (s *reportService) QuestionStats(ctx context.Context, actor models.Actor, teacherID uint) ([]*repositories.QuestionStatsRow, error) {
	if err := s.canViewTeacher(actor, teacherID); err != nil {
		return nil, err
	}

	if _, err := s.repo.Teacher().GetByID(ctx, teacherID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, NewInternalError(err)
	}

	rows, err := s.repo.Report().QuestionStats(ctx, teacherID)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return rows, nil
}

func (s *reportService) OverallAverage(ctx context.Context, actor models.Actor, teacherID uint) (*float64, error) {
	if err := s.canViewTeacher(actor, teacherID); err != nil {
		return nil, err
	}

	avg, err := s.repo.Report().OverallAverage(ctx, teacherID)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return avg, nil
}

func (s *reportService) RemarksFeed(ctx context.Context, actor models.Actor, teacherID uint) ([]*repositories.RemarkRow, error) {
	if err := s.canViewTeacher(actor, teacherID); err != nil {
		return nil, err
	}

	// Admin views include the submitting student's year level; teacher
	// views stay anonymous.
	rows, err := s.repo.Report().Remarks(ctx, teacherID, actor.IsAdmin())
	if err != nil {
		return nil, NewInternalError(err)
	}
	return rows, nil
}

func (s *reportService) TeacherSummary(ctx context.Context, actor models.Actor, teacherID uint) (*TeacherSummaryResponse, error) {
	if err := s.canViewTeacher(actor, teacherID); err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, teacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, NewInternalError(err)
	}

	evaluationCount, err := s.repo.Evaluation().CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, NewInternalError(err)
	}

	approvedStudents, err := s.repo.Student().CountByStatus(ctx, models.StudentApproved)
	if err != nil {
		return nil, NewInternalError(err)
	}

	avg, err := s.repo.Report().OverallAverage(ctx, teacherID)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &TeacherSummaryResponse{
		Teacher:          teacher,
		EvaluationCount:  evaluationCount,
		ApprovedStudents: approvedStudents,
		OverallAverage:   avg,
	}, nil
}

// TeacherReport bundles the per-question stats, overall average and
// remarks feed into one response for the results screen.
func (s *reportService) TeacherReport(ctx context.Context, actor models.Actor, teacherID uint) (*TeacherReportResponse, error) {
	if err := s.canViewTeacher(actor, teacherID); err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, teacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, NewInternalError(err)
	}

	stats, err := s.repo.Report().QuestionStats(ctx, teacherID)
	if err != nil {
		return nil, NewInternalError(err)
	}

	avg, err := s.repo.Report().OverallAverage(ctx, teacherID)
	if err != nil {
		return nil, NewInternalError(err)
	}

	remarks, err := s.repo.Report().Remarks(ctx, teacherID, actor.IsAdmin())
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &TeacherReportResponse{
		Teacher:        teacher,
		QuestionStats:  stats,
		OverallAverage: avg,
		Remarks:        remarks,
	}, nil
}

func (s *reportService) AdminOverview(ctx context.Context, actor models.Actor) (*AdminOverviewResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotPermitted
	}

	teachers, err := s.repo.Teacher().Count(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}

	students, err := s.repo.Student().Count(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}

	questions, err := s.repo.Question().Count(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}

	pending, err := s.repo.Student().CountByStatus(ctx, models.StudentPending)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &AdminOverviewResponse{
		TotalTeachers:   teachers,
		TotalStudents:   students,
		TotalQuestions:  questions,
		PendingStudents: pending,
	}, nil
}
