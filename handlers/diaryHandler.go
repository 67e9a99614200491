package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyplanner/StudyPlannerBackend/db"
	"github.com/studyplanner/StudyPlannerBackend/middleware"
	"github.com/studyplanner/StudyPlannerBackend/models"
)

// CreateDiary creates a new diary entry for the calling user.
func CreateDiary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
		Mood    string `json:"mood"`
		Weather string `json:"weather"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	diary := models.Diary{
		UserID:  user.ID,
		Title:   input.Title,
		Content: input.Content,
		Mood:    input.Mood,
		Weather: input.Weather,
	}

	if err := db.DB.Create(&diary).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create diary entry"})
		return
	}

	c.JSON(http.StatusCreated, diary)
}

// GetDiaries lists the calling user's diary entries, newest first.
func GetDiaries(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var diaries []models.Diary
	if err := db.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&diaries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list diary entries"})
		return
	}

	c.JSON(http.StatusOK, diaries)
}

func UpdateDiary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")
	var diary models.Diary
	if err := db.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&diary).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Diary entry not found"})
		return
	}

	var input struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
		Mood    *string `json:"mood"`
		Weather *string `json:"weather"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	if input.Title != nil {
		diary.Title = *input.Title
	}
	if input.Content != nil {
		diary.Content = *input.Content
	}
	if input.Mood != nil {
		diary.Mood = *input.Mood
	}
	if input.Weather != nil {
		diary.Weather = *input.Weather
	}

	if err := db.DB.Save(&diary).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update diary entry"})
		return
	}

	c.JSON(http.StatusOK, diary)
}

func DeleteDiary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")
	result := db.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Diary{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete diary entry"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Diary entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Diary entry deleted"})
}
