package validator

// Request DTOs validated by the shared Validator. Services alias these
// types so handlers and services agree on one shape.

// SubmitEvaluationRequest carries one evaluation submission. Ratings map
// question IDs to the raw form values; the evaluation service converts
// and bounds-checks them against the configured scale.
type SubmitEvaluationRequest struct {
	TeacherID uint            `json:"teacher_id" validate:"required"`
	Remarks   *string         `json:"remarks" validate:"omitempty,max=2000"`
	Ratings   map[uint]string `json:"ratings" validate:"required"`
}

type RegisterStudentRequest struct {
	SchoolID  string `json:"school_id" validate:"required,school_id"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	YearLevel string `json:"year_level" validate:"required,max=20"`
}

type UpdateStudentRequest struct {
	Password  *string `json:"password" validate:"omitempty,min=6,max=72"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	YearLevel *string `json:"year_level" validate:"omitempty,max=20"`
	// Status may only be changed by an admin; the service enforces it.
	Status *string `json:"status" validate:"omitempty,oneof=Pending Approved"`
}

type CreateTeacherRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Course    string `json:"course" validate:"required,max=100"`
}

type UpdateTeacherRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=100"`
	Password  *string `json:"password" validate:"omitempty,min=6,max=72"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Course    *string `json:"course" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Role     string `json:"role" validate:"required,oneof=student teacher admin"`
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type AddQuestionRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

type BulkUpdateQuestionsRequest struct {
	Questions map[uint]string `json:"questions" validate:"required,min=1"`
}
