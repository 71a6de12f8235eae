package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ncst-capstone/evaluation-service/internal/repositories"
)

type ReportPostgreSQL struct {
	db *gorm.DB
}

func NewReportPostgreSQL(db *gorm.DB) repositories.ReportRepository {
	return &ReportPostgreSQL{db: db}
}

// QuestionStats aggregates ratings per question for one teacher. Every
// roster question appears in the result; questions without responses
// carry a NULL average and a zero count, never a division by zero.
func (r *ReportPostgreSQL) QuestionStats(ctx context.Context, teacherID uint) ([]*repositories.QuestionStatsRow, error) {
	var rows []*repositories.QuestionStatsRow

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			q.id            AS question_id,
			q.text          AS question_text,
			ROUND(AVG(ted.value)::numeric, 2) AS average_rating,
			COUNT(ted.value) AS response_count
		FROM questions q
		LEFT JOIN (
			SELECT ed.question_id, ed.value
			FROM evaluation_details ed
			JOIN evaluations e ON e.id = ed.evaluation_id
			WHERE e.teacher_id = ?
		) ted ON ted.question_id = q.id
		GROUP BY q.id, q.text, q.display_order
		ORDER BY q.display_order`, teacherID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate question stats: %w", err)
	}

	return rows, nil
}

// OverallAverage returns the mean of every rating recorded for the
// teacher, nil when no evaluations exist.
func (r *ReportPostgreSQL) OverallAverage(ctx context.Context, teacherID uint) (*float64, error) {
	var avg *float64

	err := r.db.WithContext(ctx).Raw(`
		SELECT ROUND(AVG(ed.value)::numeric, 2)
		FROM evaluation_details ed
		JOIN evaluations e ON e.id = ed.evaluation_id
		WHERE e.teacher_id = ?`, teacherID).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute overall average: %w", err)
	}

	return avg, nil
}

// Remarks returns non-empty free-text remarks for a teacher, newest
// first. The admin view joins the submitting student's year level.
func (r *ReportPostgreSQL) Remarks(ctx context.Context, teacherID uint, withYearLevel bool) ([]*repositories.RemarkRow, error) {
	var rows []*repositories.RemarkRow

	query := `
		SELECT e.remarks, e.submitted_at
		FROM evaluations e
		WHERE e.teacher_id = ? AND e.remarks IS NOT NULL AND e.remarks != ''
		ORDER BY e.submitted_at DESC`
	if withYearLevel {
		query = `
		SELECT e.remarks, e.submitted_at, s.year_level
		FROM evaluations e
		JOIN students s ON s.school_id = e.student_id
		WHERE e.teacher_id = ? AND e.remarks IS NOT NULL AND e.remarks != ''
		ORDER BY e.submitted_at DESC`
	}

	if err := r.db.WithContext(ctx).Raw(query, teacherID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load remarks: %w", err)
	}

	return rows, nil
}
