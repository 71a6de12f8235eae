package models

import "time"

type StudentStatus string

const (
	StudentPending  StudentStatus = "Pending"
	StudentApproved StudentStatus = "Approved"
)

// Student is identified by the school-issued ID, not a surrogate key.
type Student struct {
	SchoolID  string        `json:"school_id" gorm:"primaryKey;size:32"`
	Password  string        `json:"-" gorm:"not null;size:255"`
	Email     string        `json:"email" gorm:"not null;size:255"`
	FirstName string        `json:"first_name" gorm:"not null;size:100"`
	LastName  string        `json:"last_name" gorm:"not null;size:100"`
	YearLevel string        `json:"year_level" gorm:"not null;size:20"`
	Status    StudentStatus `json:"status" gorm:"not null;default:Pending;size:20;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Evaluations []Evaluation `json:"-" gorm:"foreignKey:StudentID"`
}

func (Student) TableName() string {
	return "students"
}
