package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ncst-capstone/evaluation-service/internal/models"
	"github.com/ncst-capstone/evaluation-service/internal/services"
	"github.com/ncst-capstone/evaluation-service/internal/utils"
)

type HandlerManager struct {
	evaluationHandler *EvaluationHandler
	reportHandler     *ReportHandler
	rosterHandler     *RosterHandler
	accountHandler    *AccountHandler
	authMiddleware    *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *utils.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		evaluationHandler: NewEvaluationHandler(serviceManager.Evaluation(), logger),
		reportHandler:     NewReportHandler(serviceManager.Report(), serviceManager.Export(), logger),
		rosterHandler:     NewRosterHandler(serviceManager.Roster(), logger),
		accountHandler:    NewAccountHandler(serviceManager.Account(), logger),
		authMiddleware:    NewAuthMiddleware(tokens, logger),
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.accountHandler.Register)
		auth.POST("/login", hm.accountHandler.Login)
	}

	authed := v1.Group("")
	authed.Use(hm.authMiddleware.RequireAuth())
	{
		// Evaluation routes - Students only
		evaluations := authed.Group("/evaluations")
		evaluations.Use(hm.authMiddleware.RequireRole(models.RoleStudent))
		{
			evaluations.POST("", hm.evaluationHandler.SubmitEvaluation)
			evaluations.GET("/pending", hm.evaluationHandler.PendingTeachers)
			evaluations.GET("/progress", hm.evaluationHandler.Progress)
		}

		// Report routes - the service layer scopes teachers to their own
		// results; admins see everything
		reports := authed.Group("/reports")
		{
			reports.GET("/overview", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.reportHandler.AdminOverview)

			teacherReports := reports.Group("/teachers/:id")
			teacherReports.Use(hm.authMiddleware.RequireRole(models.RoleTeacher, models.RoleAdmin))
			{
				teacherReports.GET("", hm.reportHandler.TeacherReport)
				teacherReports.GET("/summary", hm.reportHandler.TeacherSummary)
				teacherReports.GET("/questions", hm.reportHandler.QuestionStats)
				teacherReports.GET("/remarks", hm.reportHandler.Remarks)
				teacherReports.GET("/export", hm.reportHandler.ExportTeacherReport)
			}
		}

		// Roster routes - reading is open to every authenticated role,
		// mutation is admin only
		questions := authed.Group("/questions")
		{
			questions.GET("", hm.rosterHandler.ListQuestions)
			questions.POST("", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.rosterHandler.AddQuestion)
			questions.PUT("", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.rosterHandler.UpdateQuestions)
			questions.DELETE("/:id", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.rosterHandler.DeleteQuestion)
		}

		// Account routes
		students := authed.Group("/students")
		{
			students.GET("", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.accountHandler.ListStudents)
			students.GET("/:school_id", hm.accountHandler.GetStudent)
			students.PUT("/:school_id", hm.accountHandler.UpdateStudent)
			students.POST("/:school_id/approve", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.accountHandler.ApproveStudent)
		}

		teachers := authed.Group("/teachers")
		{
			teachers.GET("", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.accountHandler.ListTeachers)
			teachers.POST("", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.accountHandler.CreateTeacher)
			teachers.GET("/:id", hm.accountHandler.GetTeacher)
			teachers.PUT("/:id", hm.accountHandler.UpdateTeacher)
			teachers.DELETE("/:id", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.accountHandler.DeleteTeacher)
		}
	}
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "evaluation-service",
	})
}
