package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
)

type TeacherPostgreSQL struct {
	db *gorm.DB
}

func NewTeacherPostgreSQL(db *gorm.DB) repositories.TeacherRepository {
	return &TeacherPostgreSQL{db: db}
}

func (t *TeacherPostgreSQL) Create(ctx context.Context, teacher *models.Teacher) error {
	if err := t.db.WithContext(ctx).Create(teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("teacher username %s: %w", teacher.Username, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create teacher: %w", err)
	}
	return nil
}

func (t *TeacherPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := t.db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("teacher %d: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	return &teacher, nil
}

func (t *TeacherPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := t.db.WithContext(ctx).First(&teacher, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("teacher %s: %w", username, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher by username: %w", err)
	}
	return &teacher, nil
}

func (t *TeacherPostgreSQL) Update(ctx context.Context, teacher *models.Teacher) error {
	if err := t.db.WithContext(ctx).Save(teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("teacher username %s: %w", teacher.Username, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to update teacher: %w", err)
	}
	return nil
}

func (t *TeacherPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := t.db.WithContext(ctx).Delete(&models.Teacher{}, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("teacher %d has evaluations: %w", id, repositories.ErrForeignKeyViolated)
		}
		return fmt.Errorf("failed to delete teacher: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("teacher %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (t *TeacherPostgreSQL) List(ctx context.Context) ([]*models.Teacher, error) {
	var teachers []*models.Teacher
	if err := t.db.WithContext(ctx).
		Order("course ASC").
		Order("last_name ASC").
		Find(&teachers).Error; err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return teachers, nil
}

// ListNotEvaluatedBy returns teachers the student has no evaluation for,
// ordered by last name.
func (t *TeacherPostgreSQL) ListNotEvaluatedBy(ctx context.Context, studentID string) ([]*models.Teacher, error) {
	var teachers []*models.Teacher
	if err := t.db.WithContext(ctx).
		Where("id NOT IN (?)", t.db.
			Model(&models.Evaluation{}).
			Select("teacher_id").
			Where("student_id = ?", studentID)).
		Order("last_name ASC").
		Find(&teachers).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending teachers: %w", err)
	}
	return teachers, nil
}

func (t *TeacherPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := t.db.WithContext(ctx).Model(&models.Teacher{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count teachers: %w", err)
	}
	return count, nil
}
