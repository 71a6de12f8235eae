package services

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/repositories"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
	"github.com/ncst-capstone/evaluation-service/internal/validator"
)

var errInvalidCredentials = NewNotAuthorizedError("invalid username or password")

type accountService struct {
	repo         repositories.Repository
	logger       *slog.Logger
	validator    *validator.Validator
	tokens       *utils.TokenManager
	notification NotificationEventService
}

func NewAccountService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, tokens *utils.TokenManager, notification NotificationEventService) AccountService {
	return &accountService{
		repo:         repo,
		logger:       logger,
		validator:    v,
		tokens:       tokens,
		notification: notification,
	}
}

// ===== REGISTRATION & LOGIN =====

// RegisterStudent creates a Pending account. Approval is a separate
// admin action; a pending student can log in to nothing.
func (s *accountService) RegisterStudent(ctx context.Context, req *RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, NewInternalError(err)
	}

	student := &models.Student{
		SchoolID:  strings.TrimSpace(req.SchoolID),
		Password:  hash,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		YearLevel: req.YearLevel,
		Status:    models.StudentPending,
	}

	if err := s.repo.Student().Create(ctx, student); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("school ID already registered")
		}
		return nil, NewInternalError(err)
	}

	s.logger.Info("Student registered", "school_id", student.SchoolID)
	return student, nil
}

func (s *accountService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		return nil, NewValidationError("unknown role")
	}

	var (
		actor       models.Actor
		displayName string
	)

	switch role {
	case models.RoleStudent:
		student, err := s.repo.Student().GetBySchoolID(ctx, req.Username)
		if err != nil || !checkPassword(studentPassword(student, err), req.Password) {
			return nil, errInvalidCredentials
		}
		if student.Status != models.StudentApproved {
			return nil, NewNotAuthorizedError("account is awaiting administrator approval")
		}
		actor = models.StudentActor(student.SchoolID)
		displayName = student.FirstName

	case models.RoleTeacher:
		teacher, err := s.repo.Teacher().GetByUsername(ctx, req.Username)
		if err != nil || !checkPassword(teacherPassword(teacher, err), req.Password) {
			return nil, errInvalidCredentials
		}
		actor = models.TeacherActor(teacher.ID)
		displayName = teacher.FirstName + " " + teacher.LastName

	case models.RoleAdmin:
		admin, err := s.repo.Admin().GetByUsername(ctx, req.Username)
		if err != nil || !checkPassword(adminPassword(admin, err), req.Password) {
			return nil, errInvalidCredentials
		}
		actor = models.AdminActor(admin.ID)
		displayName = admin.Username
	}

	token, expiresAt, err := s.tokens.Issue(actor)
	if err != nil {
		return nil, NewInternalError(err)
	}

	s.logger.Info("Login", "role", actor.Role, "subject", actor.Subject())

	return &LoginResponse{
		Token:       token,
		Role:        actor.Role,
		DisplayName: displayName,
		ExpiresAt:   expiresAt,
	}, nil
}

// ===== STUDENT ACCOUNTS =====

func (s *accountService) GetStudent(ctx context.Context, actor models.Actor, schoolID string) (*models.Student, error) {
	if !actor.IsAdmin() && !(actor.IsStudent() && actor.StudentID == schoolID) {
		return nil, ErrNotPermitted
	}

	student, err := s.repo.Student().GetBySchoolID(ctx, schoolID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, NewInternalError(err)
	}
	return student, nil
}

// UpdateStudent applies profile changes. Admins may touch everything
// including status; a student may only edit their own profile fields.
func (s *accountService) UpdateStudent(ctx context.Context, actor models.Actor, schoolID string, req *UpdateStudentRequest) (*models.Student, error) {
	selfEdit := actor.IsStudent() && actor.StudentID == schoolID
	if !actor.IsAdmin() && !selfEdit {
		return nil, ErrNotPermitted
	}
	if req.Status != nil && !actor.IsAdmin() {
		return nil, NewNotAuthorizedError("only an administrator can change account status")
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}

	student, err := s.repo.Student().GetBySchoolID(ctx, schoolID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, NewInternalError(err)
	}

	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, NewInternalError(err)
		}
		student.Password = hash
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.YearLevel != nil {
		student.YearLevel = *req.YearLevel
	}
	if req.Status != nil {
		student.Status = models.StudentStatus(*req.Status)
	}

	if err := s.repo.Student().Update(ctx, student); err != nil {
		return nil, NewInternalError(err)
	}

	return student, nil
}

// ApproveStudent flips Pending to Approved. Approving an already
// approved account is reported as a conflict so the admin UI can say
// so, mirroring how duplicate submissions behave.
func (s *accountService) ApproveStudent(ctx context.Context, actor models.Actor, schoolID string) error {
	if !actor.IsAdmin() {
		return ErrNotPermitted
	}

	student, err := s.repo.Student().GetBySchoolID(ctx, schoolID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStudentNotFound
		}
		return NewInternalError(err)
	}

	if student.Status == models.StudentApproved {
		return NewConflictError("student is already approved")
	}

	student.Status = models.StudentApproved
	if err := s.repo.Student().Update(ctx, student); err != nil {
		return NewInternalError(err)
	}

	s.logger.Info("Student approved", "school_id", schoolID, "admin_id", actor.AdminID)
	s.notification.StudentApproved(ctx, schoolID)
	return nil
}

func (s *accountService) ListStudents(ctx context.Context, actor models.Actor) ([]*models.Student, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotPermitted
	}

	students, err := s.repo.Student().List(ctx, repositories.StudentFilters{})
	if err != nil {
		return nil, NewInternalError(err)
	}
	return students, nil
}

func (s *accountService) PendingStudents(ctx context.Context, actor models.Actor) ([]*models.Student, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotPermitted
	}

	pending := models.StudentPending
	students, err := s.repo.Student().List(ctx, repositories.StudentFilters{Status: &pending})
	if err != nil {
		return nil, NewInternalError(err)
	}
	return students, nil
}

// ===== TEACHER ACCOUNTS =====

func (s *accountService) GetTeacher(ctx context.Context, actor models.Actor, id uint) (*models.Teacher, error) {
	if !actor.IsAdmin() && !(actor.IsTeacher() && actor.TeacherID == id) {
		return nil, ErrNotPermitted
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, NewInternalError(err)
	}
	return teacher, nil
}

func (s *accountService) CreateTeacher(ctx context.Context, actor models.Actor, req *CreateTeacherRequest) (*models.Teacher, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotPermitted
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, NewInternalError(err)
	}

	teacher := &models.Teacher{
		Username:  strings.TrimSpace(req.Username),
		Password:  hash,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Course:    req.Course,
	}

	if err := s.repo.Teacher().Create(ctx, teacher); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("username already exists")
		}
		return nil, NewInternalError(err)
	}

	s.logger.Info("Teacher created", "teacher_id", teacher.ID, "course", teacher.Course)
	return teacher, nil
}

func (s *accountService) UpdateTeacher(ctx context.Context, actor models.Actor, id uint, req *UpdateTeacherRequest) (*models.Teacher, error) {
	selfEdit := actor.IsTeacher() && actor.TeacherID == id
	if !actor.IsAdmin() && !selfEdit {
		return nil, ErrNotPermitted
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, toValidationError(err)
	}

	teacher, err := s.repo.Teacher().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, NewInternalError(err)
	}

	if req.Username != nil {
		teacher.Username = strings.TrimSpace(*req.Username)
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, NewInternalError(err)
		}
		teacher.Password = hash
	}
	if req.Email != nil {
		teacher.Email = *req.Email
	}
	if req.FirstName != nil {
		teacher.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		teacher.LastName = *req.LastName
	}
	if req.Course != nil {
		teacher.Course = *req.Course
	}

	if err := s.repo.Teacher().Update(ctx, teacher); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("username already exists")
		}
		return nil, NewInternalError(err)
	}

	return teacher, nil
}

// DeleteTeacher refuses to remove a teacher with recorded evaluations;
// historical ratings must never be orphaned.
func (s *accountService) DeleteTeacher(ctx context.Context, actor models.Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrNotPermitted
	}

	count, err := s.repo.Evaluation().CountByTeacher(ctx, id)
	if err != nil {
		return NewInternalError(err)
	}
	if count > 0 {
		return NewConflictError("teacher has evaluations and cannot be deleted")
	}

	if err := s.repo.Teacher().Delete(ctx, id); err != nil {
		switch {
		case repositories.IsNotFoundError(err):
			return ErrTeacherNotFound
		case repositories.IsForeignKeyError(err):
			return NewConflictError("teacher has evaluations and cannot be deleted")
		default:
			return NewInternalError(err)
		}
	}

	s.logger.Info("Teacher deleted", "teacher_id", id, "admin_id", actor.AdminID)
	return nil
}

func (s *accountService) ListTeachers(ctx context.Context, actor models.Actor) ([]*models.Teacher, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotPermitted
	}

	teachers, err := s.repo.Teacher().List(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return teachers, nil
}

// ===== CREDENTIAL HELPERS =====

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// The *Password helpers keep the login paths constant-shape: a missing
// account and a wrong password take the same branch.
func studentPassword(student *models.Student, err error) string {
	if err != nil || student == nil {
		return ""
	}
	return student.Password
}

func teacherPassword(teacher *models.Teacher, err error) string {
	if err != nil || teacher == nil {
		return ""
	}
	return teacher.Password
}

func adminPassword(admin *models.Admin, err error) string {
	if err != nil || admin == nil {
		return ""
	}
	return admin.Password
}
