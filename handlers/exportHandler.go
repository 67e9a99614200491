package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyplanner/StudyPlannerBackend/db"
	"github.com/studyplanner/StudyPlannerBackend/middleware"
	"github.com/studyplanner/StudyPlannerBackend/models"
	"github.com/studyplanner/StudyPlannerBackend/services"
	"github.com/studyplanner/StudyPlannerBackend/utils"
	"go.uber.org/zap"
)

// ExportTimeout bounds the headless-chrome print; replaced from config.
var ExportTimeout = 30 * time.Second

func ExportReport(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Type      string `json:"type" binding:"required,oneof=weekly monthly"`
		Format    string `json:"format" binding:"required,oneof=html pdf"`
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	start, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date"})
		return
	}
	end, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date"})
		return
	}
	// The end date is inclusive.
	end = end.AddDate(0, 0, 1)

	var goals []models.Goal
	if err := db.DB.
		Where("user_id = ? AND created_at >= ? AND created_at < ?", user.ID, start, end).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report"})
		return
	}

	html, err := services.RenderHTML(goals, input.Type)
	if err != nil {
		utils.Logger.Error("render_report_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report"})
		return
	}

	filename := fmt.Sprintf("%s-%s-%s", input.Type, input.StartDate, input.EndDate)

	if input.Format == "html" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.html"`, filename))
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ExportTimeout)
	defer cancel()

	pdf, err := services.RenderPDF(ctx, html)
	if err != nil {
		utils.Logger.Error("render_pdf_failed", zap.Error(err))
		utils.ErrorCount.WithLabelValues("export", "pdf").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
