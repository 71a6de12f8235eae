package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncst-capstone/evaluation-service/internal/services"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
)

type EvaluationHandler struct {
	BaseHandler
	service services.EvaluationService
}

func NewEvaluationHandler(service services.EvaluationService, logger utils.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SubmitEvaluation records the current student's evaluation of one teacher
// @Summary Submit an evaluation
// @Tags evaluations
// @Accept json
// @Produce json
// @Success 201 {object} services.EvaluationResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Teacher already evaluated"
// @Router /evaluations [post]
func (h *EvaluationHandler) SubmitEvaluation(c *gin.Context) {
	h.LogRequest(c, "Submitting evaluation")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.SubmitEvaluationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.service.Submit(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// PendingTeachers lists teachers the current student has not evaluated yet
// @Summary List pending teachers
// @Tags evaluations
// @Produce json
// @Success 200 {array} models.Teacher
// @Router /evaluations/pending [get]
func (h *EvaluationHandler) PendingTeachers(c *gin.Context) {
	h.LogRequest(c, "Listing pending teachers")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	teachers, err := h.service.PendingTeachers(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teachers)
}

// Progress reports evaluated vs. remaining counts for the current student
// @Summary Evaluation progress
// @Tags evaluations
// @Produce json
// @Success 200 {object} services.StudentProgressResponse
// @Router /evaluations/progress [get]
func (h *EvaluationHandler) Progress(c *gin.Context) {
	h.LogRequest(c, "Fetching evaluation progress")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	progress, err := h.service.Progress(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}
