package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
)

type EvaluationPostgreSQL struct {
	db *gorm.DB
}

func NewEvaluationPostgreSQL(db *gorm.DB) repositories.EvaluationRepository {
	return &EvaluationPostgreSQL{db: db}
}

// Create inserts the header and its detail rows in one statement chain.
// gorm persists the associated Details with the header; on the
// (student_id, teacher_id) unique index firing the whole insert fails
// and nothing is written.
func (e *EvaluationPostgreSQL) Create(ctx context.Context, evaluation *models.Evaluation) error {
	if err := e.db.WithContext(ctx).Create(evaluation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("evaluation for student %s teacher %d: %w",
				evaluation.StudentID, evaluation.TeacherID, repositories.ErrDuplicate)
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("evaluation references missing rows: %w", repositories.ErrForeignKeyViolated)
		}
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (e *EvaluationPostgreSQL) Exists(ctx context.Context, studentID string, teacherID uint) (bool, error) {
	var count int64
	if err := e.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check evaluation existence: %w", err)
	}
	return count > 0, nil
}

func (e *EvaluationPostgreSQL) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	if err := e.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count evaluations: %w", err)
	}
	return count, nil
}

func (e *EvaluationPostgreSQL) CountDistinctTeachersByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	if err := e.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("student_id = ?", studentID).
		Distinct("teacher_id").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count evaluated teachers: %w", err)
	}
	return count, nil
}
