package models

import "time"

// Evaluation is the submission header. The unique index on
// (student_id, teacher_id) is the source of truth for the
// one-evaluation-per-pair invariant; service-level pre-checks are
// only a fast path.
type Evaluation struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	StudentID   string    `json:"student_id" gorm:"not null;size:32;uniqueIndex:idx_evaluations_student_teacher"`
	TeacherID   uint      `json:"teacher_id" gorm:"not null;uniqueIndex:idx_evaluations_student_teacher;index"`
	Remarks     *string   `json:"remarks" gorm:"type:text"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null;index"`

	Student Student `json:"-" gorm:"foreignKey:StudentID"`
	Teacher Teacher `json:"-" gorm:"foreignKey:TeacherID"`

	Details []EvaluationDetail `json:"details" gorm:"foreignKey:EvaluationID"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// EvaluationDetail is one rating tying an evaluation to one question.
// Details are created with their evaluation and share its lifetime.
type EvaluationDetail struct {
	EvaluationID uint `json:"evaluation_id" gorm:"primaryKey"`
	QuestionID   uint `json:"question_id" gorm:"primaryKey"`
	Value        int  `json:"value" gorm:"not null"`

	Evaluation Evaluation `json:"-" gorm:"foreignKey:EvaluationID;constraint:OnDelete:CASCADE"`
	Question   Question   `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:RESTRICT"`
}

func (EvaluationDetail) TableName() string {
	return "evaluation_details"
}
