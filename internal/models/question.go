package models

import "time"

// Question is one questionnaire item. Order values are dense and 1-based
// across the whole roster; deleting a question re-sequences the rest.
type Question struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Text  string `json:"text" gorm:"type:text;not null"`
	Order int    `json:"order" gorm:"column:display_order;not null;uniqueIndex"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
