package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ncst-capstone/evaluation-service/internal/cache"
	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
)

const rosterCacheKey = "roster"

type QuestionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewQuestionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("question order %d: %w", question.Order, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create question: %w", err)
	}

	cache.SafeDelete(ctx, q.cacheManager.Question, rosterCacheKey)
	return nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Save(question).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}

	cache.SafeDelete(ctx, q.cacheManager.Question, rosterCacheKey)
	return nil
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("question %d has recorded ratings: %w", id, repositories.ErrForeignKeyViolated)
		}
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("question %d: %w", id, repositories.ErrNotFound)
	}

	cache.SafeDelete(ctx, q.cacheManager.Question, rosterCacheKey)
	return nil
}

// ListOrdered returns the full roster in display order. The read is
// cached; every mutation on this repository drops the cached roster.
func (q *QuestionPostgreSQL) ListOrdered(ctx context.Context) ([]*models.Question, error) {
	var questions []*models.Question

	err := q.cacheManager.Question.CacheOrExecute(ctx, rosterCacheKey, &questions, cache.QuestionCacheConfig.TTL, func() (interface{}, error) {
		var dbQuestions []*models.Question
		if err := q.db.WithContext(ctx).
			Order("display_order ASC").
			Find(&dbQuestions).Error; err != nil {
			return nil, fmt.Errorf("failed to list questions: %w", err)
		}
		return dbQuestions, nil
	})
	if err != nil {
		return nil, err
	}

	return questions, nil
}

func (q *QuestionPostgreSQL) MaxOrder(ctx context.Context) (int, error) {
	var maxOrder *int
	if err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("MAX(display_order)").
		Scan(&maxOrder).Error; err != nil {
		return 0, fmt.Errorf("failed to get max question order: %w", err)
	}
	if maxOrder == nil {
		return 0, nil
	}
	return *maxOrder, nil
}

func (q *QuestionPostgreSQL) UpdateOrder(ctx context.Context, id uint, order int) error {
	if err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		Update("display_order", order).Error; err != nil {
		return fmt.Errorf("failed to update question order: %w", err)
	}

	cache.SafeDelete(ctx, q.cacheManager.Question, rosterCacheKey)
	return nil
}

func (q *QuestionPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := q.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// DetailCount reports how many recorded ratings reference the question.
func (q *QuestionPostgreSQL) DetailCount(ctx context.Context, questionID uint) (int64, error) {
	var count int64
	if err := q.db.WithContext(ctx).
		Model(&models.EvaluationDetail{}).
		Where("question_id = ?", questionID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count question details: %w", err)
	}
	return count, nil
}
