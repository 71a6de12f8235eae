package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncst-capstone/evaluation-service/internal/services"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	service services.ReportService
	export  services.ExportService
}

func NewReportHandler(service services.ReportService, export services.ExportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// TeacherSummary returns headline numbers for one teacher
// @Summary Teacher summary
// @Tags reports
// @Produce json
// @Success 200 {object} services.TeacherSummaryResponse
// @Failure 403 {object} ErrorResponse "Not permitted"
// @Router /reports/teachers/{id}/summary [get]
func (h *ReportHandler) TeacherSummary(c *gin.Context) {
	h.LogRequest(c, "Fetching teacher summary")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	teacherID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.service.TeacherSummary(c.Request.Context(), actor, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// QuestionStats returns the per-question averages for one teacher
// @Summary Per-question statistics
// @Tags reports
// @Produce json
// @Success 200 {array} repositories.QuestionStatsRow
// @Router /reports/teachers/{id}/questions [get]
func (h *ReportHandler) QuestionStats(c *gin.Context) {
	h.LogRequest(c, "Fetching question stats")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	teacherID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.service.QuestionStats(c.Request.Context(), actor, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Remarks returns the free-text feedback feed for one teacher
// @Summary Remarks feed
// @Tags reports
// @Produce json
// @Success 200 {array} repositories.RemarkRow
// @Router /reports/teachers/{id}/remarks [get]
func (h *ReportHandler) Remarks(c *gin.Context) {
	h.LogRequest(c, "Fetching remarks feed")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	teacherID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	remarks, err := h.service.RemarksFeed(c.Request.Context(), actor, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, remarks)
}

// TeacherReport returns the full report bundle for one teacher
// @Summary Full teacher report
// @Tags reports
// @Produce json
// @Success 200 {object} services.TeacherReportResponse
// @Router /reports/teachers/{id} [get]
func (h *ReportHandler) TeacherReport(c *gin.Context) {
	h.LogRequest(c, "Fetching teacher report")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	teacherID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.service.TeacherReport(c.Request.Context(), actor, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportTeacherReport streams the teacher report as an xlsx workbook
// @Summary Export teacher report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /reports/teachers/{id}/export [get]
func (h *ReportHandler) ExportTeacherReport(c *gin.Context) {
	h.LogRequest(c, "Exporting teacher report")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}
	teacherID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	workbook, err := h.export.TeacherResultsWorkbook(c.Request.Context(), actor, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("teacher-%d-report.xlsx", teacherID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

// AdminOverview returns system-wide counts for the admin dashboard
// @Summary Admin overview
// @Tags reports
// @Produce json
// @Success 200 {object} services.AdminOverviewResponse
// @Router /reports/overview [get]
func (h *ReportHandler) AdminOverview(c *gin.Context) {
	h.LogRequest(c, "Fetching admin overview")

	actor, ok := GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
		return
	}

	overview, err := h.service.AdminOverview(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
