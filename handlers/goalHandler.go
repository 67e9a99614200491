package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyplanner/StudyPlannerBackend/db"
	"github.com/studyplanner/StudyPlannerBackend/middleware"
	"github.com/studyplanner/StudyPlannerBackend/models"
	"github.com/studyplanner/StudyPlannerBackend/services"
	"github.com/studyplanner/StudyPlannerBackend/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func GetGoals(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}

	query := db.DB.Model(&models.Goal{}).Where("user_id = ?", user.ID)
	if goalType := c.Query("type"); goalType != "" {
		query = query.Where("type = ?", goalType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list goals"})
		return
	}

	var goals []models.Goal
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&goals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list goals"})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gin.H{
		"goals": goals,
		"pagination": gin.H{
			"total":      total,
			"page":       page,
			"totalPages": totalPages,
		},
	})
}

func CreateGoal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Title             string             `json:"title" binding:"required"`
		Description       string             `json:"description"`
		Type              string             `json:"type" binding:"required,oneof=short_term long_term"`
		Category          string             `json:"category"`
		StartDate         time.Time          `json:"start_date" binding:"required"`
		EndDate           time.Time          `json:"end_date" binding:"required" validate:"gtefield=StartDate"`
		Priority          string             `json:"priority" binding:"required,oneof=low medium high"`
		Milestones        []models.Milestone `json:"milestones"`
		ReminderFrequency string             `json:"reminder_frequency" binding:"omitempty,oneof=daily weekly monthly"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if err := middleware.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not precede start date"})
		return
	}

	// Status, progress and points always start at their defaults; any
	// caller-supplied values for them are ignored.
	goal := models.Goal{
		UserID:            user.ID,
		Title:             input.Title,
		Description:       input.Description,
		Type:              input.Type,
		Category:          input.Category,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		Priority:          input.Priority,
		Status:            models.StatusNotStarted,
		Progress:          0,
		Milestones:        datatypes.NewJSONSlice(input.Milestones),
		ReminderFrequency: input.ReminderFrequency,
		Points:            0,
	}

	if err := db.DB.Create(&goal).Error; err != nil {
		utils.Logger.Error("create_goal_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	invalidateCache(user.ID)
	c.JSON(http.StatusCreated, goal)
}

func UpdateGoal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")

	// Owner-scoped lookup: a foreign-owned id looks exactly like a missing one.
	var goal models.Goal
	if err := db.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&goal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	var patch services.GoalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	updated, err := services.ApplyUpdate(goal, patch)
	if err != nil {
		if errors.Is(err, services.ErrInvalidProgress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	// Single write conditioned on (id, owner): a concurrent delete makes this
	// a not-found, never a write against a vanished record.
	values := map[string]interface{}{
		"title":              updated.Title,
		"description":        updated.Description,
		"type":               updated.Type,
		"category":           updated.Category,
		"start_date":         updated.StartDate,
		"end_date":           updated.EndDate,
		"priority":           updated.Priority,
		"status":             updated.Status,
		"progress":           updated.Progress,
		"milestones":         updated.Milestones,
		"reminder_frequency": updated.ReminderFrequency,
		"points":             updated.Points,
	}
	result := db.DB.Model(&models.Goal{}).
		Where("id = ? AND user_id = ?", goal.ID, user.ID).
		Updates(values)
	if result.Error != nil {
		utils.Logger.Error("update_goal_failed", zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	if updated.Points != goal.Points {
		utils.PointsAwarded.WithLabelValues(goal.Type).Inc()
	}

	if err := db.DB.First(&updated, goal.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	invalidateCache(user.ID)
	c.JSON(http.StatusOK, updated)
}

func DeleteGoal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")

	result := db.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Goal{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	invalidateCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}

func invalidateCache(userID uint) {
	if err := middleware.InvalidateUserCache(userID); err != nil {
		utils.Logger.Warn("cache_invalidation_failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
}
