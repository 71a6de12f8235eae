package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
	"github.com/ncst-capstone/evaluation-service/internal/validator"
)

type evaluationService struct {
	repo         repositories.Repository
	logger       *slog.Logger
	validator    *validator.Validator
	scale        RatingScale
	notification NotificationEventService
}

func NewEvaluationService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, scale RatingScale, notification NotificationEventService) EvaluationService {
	return &evaluationService{
		repo:         repo,
		logger:       logger,
		validator:    v,
		scale:        scale,
		notification: notification,
	}
}

// Submit records one evaluation for (student, teacher). Checks run in
// order: approved student, existing teacher, no prior evaluation, full
// roster coverage with in-range ratings. The header and detail rows are
// written in a single transaction; the unique index on
// (student_id, teacher_id) decides duplicate races, not the pre-check.
func (s *evaluationService) Submit(ctx context.Context, actor models.Actor, req *SubmitEvaluationRequest) (*EvaluationResponse, error) {
	if !actor.IsStudent() {
		return nil, ErrNotPermitted
	}

	s.logger.Info("Submitting evaluation",
		"student_id", actor.StudentID,
		"teacher_id", req.TeacherID)

	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}

	student, err := s.repo.Student().GetBySchoolID(ctx, actor.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, NewInternalError(err)
	}
	if student.Status != models.StudentApproved {
		return nil, NewNotAuthorizedError("account is pending administrator approval")
	}

	if _, err := s.repo.Teacher().GetByID(ctx, req.TeacherID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, NewInternalError(err)
	}

	// Friendly fast path; the storage constraint is the real guard.
	exists, err := s.repo.Evaluation().Exists(ctx, actor.StudentID, req.TeacherID)
	if err != nil {
		return nil, NewInternalError(err)
	}
	if exists {
		return nil, NewConflictError("teacher already evaluated by this student")
	}

	roster, err := s.repo.Question().ListOrdered(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	if len(roster) == 0 {
		return nil, NewValidationError("no evaluation questions are configured")
	}

	details, err := s.buildDetails(roster, req.Ratings)
	if err != nil {
		return nil, err
	}

	evaluation := &models.Evaluation{
		StudentID:   actor.StudentID,
		TeacherID:   req.TeacherID,
		Remarks:     normalizeRemarks(req.Remarks),
		SubmittedAt: time.Now(),
		Details:     details,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Evaluation().Create(ctx, evaluation)
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			// Lost a concurrent race for the same pair.
			return nil, NewConflictError("teacher already evaluated by this student")
		}
		return nil, NewInternalError(err)
	}

	s.logger.Info("Evaluation submitted",
		"evaluation_id", evaluation.ID,
		"student_id", actor.StudentID,
		"teacher_id", req.TeacherID)

	s.notification.EvaluationSubmitted(ctx, evaluation.ID, actor.StudentID, req.TeacherID)

	return &EvaluationResponse{
		EvaluationID: evaluation.ID,
		TeacherID:    evaluation.TeacherID,
		SubmittedAt:  evaluation.SubmittedAt,
		RatingCount:  len(details),
	}, nil
}

// buildDetails converts raw form ratings into detail rows, requiring a
// parseable in-range value for every roster question.
func (s *evaluationService) buildDetails(roster []*models.Question, ratings map[uint]string) ([]models.EvaluationDetail, error) {
	details := make([]models.EvaluationDetail, 0, len(roster))

	for _, question := range roster {
		raw, ok := ratings[question.ID]
		if !ok || strings.TrimSpace(raw) == "" {
			return nil, NewValidationError(fmt.Sprintf("missing rating for question %d", question.ID))
		}

		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("rating for question %d is not a whole number", question.ID))
		}
		if value < s.scale.Min || value > s.scale.Max {
			return nil, NewValidationError(fmt.Sprintf("rating for question %d must be between %d and %d",
				question.ID, s.scale.Min, s.scale.Max))
		}

		details = append(details, models.EvaluationDetail{
			QuestionID: question.ID,
			Value:      value,
		})
	}

	return details, nil
}

func (s *evaluationService) PendingTeachers(ctx context.Context, actor models.Actor) ([]*models.Teacher, error) {
	if !actor.IsStudent() {
		return nil, ErrNotPermitted
	}

	teachers, err := s.repo.Teacher().ListNotEvaluatedBy(ctx, actor.StudentID)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return teachers, nil
}

func (s *evaluationService) Progress(ctx context.Context, actor models.Actor) (*StudentProgressResponse, error) {
	if !actor.IsStudent() {
		return nil, ErrNotPermitted
	}

	total, err := s.repo.Teacher().Count(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}

	evaluated, err := s.repo.Evaluation().CountDistinctTeachersByStudent(ctx, actor.StudentID)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &StudentProgressResponse{
		TotalTeachers:     total,
		EvaluatedTeachers: evaluated,
		RemainingTeachers: total - evaluated,
	}, nil
}

func normalizeRemarks(remarks *string) *string {
	if remarks == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*remarks)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
