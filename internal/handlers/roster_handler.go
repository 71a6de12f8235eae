package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncst-capstone/evaluation-service/internal/services"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
)

type RosterHandler struct {
	BaseHandler
	service services.RosterService
}

func NewRosterHandler(service services.RosterService, logger utils.Logger) *RosterHandler {
	return &RosterHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListQuestions returns the active roster in display order
// @Summary List questionnaire
// @Tags questions
// @Produce json
// @Success 200 {array} models.Question
// @Router /questions [get]
func (h *RosterHandler) ListQuestions(c *gin.Context) {
	h.LogRequest(c, "Listing questions")

	questions, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// AddQuestion appends a question to the roster
// @Summary Add a question
// @Tags questions
// @Accept json
// @Produce json
// @Success 201 {object} models.Question
// @Router /questions [post]
func (h *RosterHandler) AddQuestion(c *gin.Context) {
	h.LogRequest(c, "Adding question")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.AddQuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	question, err := h.service.Add(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestions rewrites question text in bulk
// @Summary Bulk update question text
// @Tags questions
// @Accept json
// @Router /questions [put]
func (h *RosterHandler) UpdateQuestions(c *gin.Context) {
	h.LogRequest(c, "Bulk updating questions")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	var req services.BulkUpdateQuestionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.service.BulkUpdateText(c.Request.Context(), actor, req.Questions); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteQuestion removes an unreferenced question and re-sequences the roster
// @Summary Delete a question
// @Tags questions
// @Failure 409 {object} ErrorResponse "Question has recorded ratings"
// @Router /questions/{id} [delete]
func (h *RosterHandler) DeleteQuestion(c *gin.Context) {
	h.LogRequest(c, "Deleting question")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	questionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
