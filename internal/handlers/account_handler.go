package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/services"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
)

type AccountHandler struct {
	BaseHandler
	service services.AccountService
}

func NewAccountHandler(service services.AccountService, logger utils.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PUBLIC ENDPOINTS =====

// Register creates a pending student account
// @Summary Register a student
// @Tags accounts
// @Accept json
// @Produce json
// @Success 201 {object} models.Student
// @Failure 409 {object} ErrorResponse "School ID already registered"
// @Router /auth/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering student")

	var req services.RegisterStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.RegisterStudent(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sanitizeStudent(student))
}

// Login authenticates any role and returns a bearer token
// @Summary Log in
// @Tags accounts
// @Accept json
// @Produce json
// @Success 200 {object} services.LoginResponse
// @Failure 403 {object} ErrorResponse "Bad credentials or pending approval"
// @Router /auth/login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Logging in")

	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ===== STUDENT ENDPOINTS =====

// GetStudent returns one student account
// @Summary Get a student
// @Tags accounts
// @Produce json
// @Success 200 {object} models.Student
// @Router /students/{school_id} [get]
func (h *AccountHandler) GetStudent(c *gin.Context) {
	h.LogRequest(c, "Fetching student")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	student, err := h.service.GetStudent(c.Request.Context(), actor, c.Param("school_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sanitizeStudent(student))
}

// UpdateStudent applies profile or status changes
// @Summary Update a student
// @Tags accounts
// @Accept json
// @Produce json
// @Success 200 {object} models.Student
// @Router /students/{school_id} [put]
func (h *AccountHandler) UpdateStudent(c *gin.Context) {
	h.LogRequest(c, "Updating student")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.UpdateStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.UpdateStudent(c.Request.Context(), actor, c.Param("school_id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sanitizeStudent(student))
}

// ApproveStudent flips a pending account to approved
// @Summary Approve a student
// @Tags accounts
// @Failure 409 {object} ErrorResponse "Already approved"
// @Router /students/{school_id}/approve [post]
func (h *AccountHandler) ApproveStudent(c *gin.Context) {
	h.LogRequest(c, "Approving student")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	if err := h.service.ApproveStudent(c.Request.Context(), actor, c.Param("school_id")); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListStudents returns all students, pending first
// @Summary List students
// @Tags accounts
// @Produce json
// @Success 200 {array} models.Student
// @Router /students [get]
func (h *AccountHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var (
		students []*models.Student
		err      error
	)
	if c.Query("status") == "pending" {
		students, err = h.service.PendingStudents(c.Request.Context(), actor)
	} else {
		students, err = h.service.ListStudents(c.Request.Context(), actor)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	out := make([]*models.Student, len(students))
	for i, s := range students {
		out[i] = sanitizeStudent(s)
	}
	c.JSON(http.StatusOK, out)
}

// ===== TEACHER ENDPOINTS =====

// GetTeacher returns one teacher account
// @Summary Get a teacher
// @Tags accounts
// @Produce json
// @Success 200 {object} models.Teacher
// @Router /teachers/{id} [get]
func (h *AccountHandler) GetTeacher(c *gin.Context) {
	h.LogRequest(c, "Fetching teacher")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	teacher, err := h.service.GetTeacher(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sanitizeTeacher(teacher))
}

// CreateTeacher adds a teacher account
// @Summary Create a teacher
// @Tags accounts
// @Accept json
// @Produce json
// @Success 201 {object} models.Teacher
// @Failure 409 {object} ErrorResponse "Username already exists"
// @Router /teachers [post]
func (h *AccountHandler) CreateTeacher(c *gin.Context) {
	h.LogRequest(c, "Creating teacher")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.CreateTeacherRequest
	if !h.bindJSON(c, &req) {
		return
	}

	teacher, err := h.service.CreateTeacher(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sanitizeTeacher(teacher))
}

// UpdateTeacher applies profile changes
// @Summary Update a teacher
// @Tags accounts
// @Accept json
// @Produce json
// @Success 200 {object} models.Teacher
// @Router /teachers/{id} [put]
func (h *AccountHandler) UpdateTeacher(c *gin.Context) {
	h.LogRequest(c, "Updating teacher")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTeacherRequest
	if !h.bindJSON(c, &req) {
		return
	}

	teacher, err := h.service.UpdateTeacher(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sanitizeTeacher(teacher))
}

// DeleteTeacher removes a teacher without recorded evaluations
// @Summary Delete a teacher
// @Tags accounts
// @Failure 409 {object} ErrorResponse "Teacher has evaluations"
// @Router /teachers/{id} [delete]
func (h *AccountHandler) DeleteTeacher(c *gin.Context) {
	h.LogRequest(c, "Deleting teacher")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTeacher(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTeachers returns all teachers ordered by course then name
// @Summary List teachers
// @Tags accounts
// @Produce json
// @Success 200 {array} models.Teacher
// @Router /teachers [get]
func (h *AccountHandler) ListTeachers(c *gin.Context) {
	h.LogRequest(c, "Listing teachers")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	teachers, err := h.service.ListTeachers(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	out := make([]*models.Teacher, len(teachers))
	for i, t := range teachers {
		out[i] = sanitizeTeacher(t)
	}
	c.JSON(http.StatusOK, out)
}

// Password hashes never leave the service. The models are copied so the
// cached/stored instances stay intact.
func sanitizeStudent(s *models.Student) *models.Student {
	if s == nil {
		return nil
	}
	clean := *s
	clean.Password = ""
	return &clean
}

func sanitizeTeacher(t *models.Teacher) *models.Teacher {
	if t == nil {
		return nil
	}
	clean := *t
	clean.Password = ""
	return &clean
}
