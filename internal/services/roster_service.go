package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
	"github.com/ncst-capstone/evaluation-service/internal/validator"
)

type rosterService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewRosterService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) RosterService {
	return &rosterService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *rosterService) List(ctx context.Context) ([]*models.Question, error) {
	questions, err := s.repo.Question().ListOrdered(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return questions, nil
}

// Add appends a question at the end of the roster.
func (s *rosterService) Add(ctx context.Context, actor models.Actor, req *AddQuestionRequest) (*models.Question, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotPermitted
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}

	var question *models.Question
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		maxOrder, err := tx.Question().MaxOrder(ctx)
		if err != nil {
			return err
		}

		question = &models.Question{
			Text:  strings.TrimSpace(req.Text),
			Order: maxOrder + 1,
		}
		return tx.Question().Create(ctx, question)
	})
	if err != nil {
		return nil, NewInternalError(err)
	}

	s.logger.Info("Question added", "question_id", question.ID, "order", question.Order)
	return question, nil
}

// BulkUpdateText updates text for every supplied question that still
// exists. Missing IDs are skipped without error so a stale admin form
// submits cleanly.
func (s *rosterService) BulkUpdateText(ctx context.Context, actor models.Actor, texts map[uint]string) error {
	if !actor.IsAdmin() {
		return ErrNotPermitted
	}

	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			return NewValidationError("question text cannot be empty")
		}
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for id, text := range texts {
			question, err := tx.Question().GetByID(ctx, id)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					continue
				}
				return err
			}

			question.Text = strings.TrimSpace(text)
			if err := tx.Question().Update(ctx, question); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return NewInternalError(err)
	}

	return nil
}

// Delete removes a question with no recorded ratings and renumbers the
// remaining roster to a dense 1..N in the same transaction; either both
// happen or neither.
func (s *rosterService) Delete(ctx context.Context, actor models.Actor, questionID uint) error {
	if !actor.IsAdmin() {
		return ErrNotPermitted
	}

	var conflict bool
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Question().GetByID(ctx, questionID); err != nil {
			return err
		}

		refs, err := tx.Question().DetailCount(ctx, questionID)
		if err != nil {
			return err
		}
		if refs > 0 {
			conflict = true
			return repositories.ErrForeignKeyViolated
		}

		if err := tx.Question().Delete(ctx, questionID); err != nil {
			return err
		}

		remaining, err := tx.Question().ListOrdered(ctx)
		if err != nil {
			return err
		}

		// Ascending walk keeps order values unique at every step.
		for i, question := range remaining {
			target := i + 1
			if question.Order == target {
				continue
			}
			if err := tx.Question().UpdateOrder(ctx, question.ID, target); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		switch {
		case conflict || repositories.IsForeignKeyError(err):
			return NewConflictError("question has recorded ratings and cannot be deleted")
		case repositories.IsNotFoundError(err):
			return ErrQuestionNotFound
		default:
			return NewInternalError(err)
		}
	}

	s.logger.Info("Question deleted and roster re-sequenced", "question_id", questionID)
	return nil
}
