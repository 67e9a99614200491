package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyplanner/StudyPlannerBackend/db"
	"github.com/studyplanner/StudyPlannerBackend/middleware"
	"github.com/studyplanner/StudyPlannerBackend/models"
)

func CreateStudyRecord(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Date     *time.Time `json:"date"`
		Duration int        `json:"duration"`
		Subject  string     `json:"subject" binding:"required"`
		Notes    string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if input.Duration < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must not be negative"})
		return
	}

	record := models.StudyRecord{
		UserID:   user.ID,
		Date:     time.Now(),
		Duration: input.Duration,
		Subject:  input.Subject,
		Notes:    input.Notes,
	}
	if input.Date != nil {
		record.Date = *input.Date
	}

	if err := db.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create study record"})
		return
	}

	invalidateCache(user.ID)
	c.JSON(http.StatusCreated, record)
}

func GetStudyRecords(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	query := db.DB.Where("user_id = ?", user.ID)
	if subject := c.Query("subject"); subject != "" {
		query = query.Where("subject = ?", subject)
	}

	var records []models.StudyRecord
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list study records"})
		return
	}

	c.JSON(http.StatusOK, records)
}

func CreateBook(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Title      string `json:"title" binding:"required"`
		Author     string `json:"author" binding:"required"`
		TotalPages int    `json:"total_pages" binding:"required,min=1"`
		Status     string `json:"status" binding:"omitempty,oneof=reading completed planned"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	status := input.Status
	if status == "" {
		status = models.BookPlanned
	}

	book := models.BookRecord{
		UserID:       user.ID,
		Title:        input.Title,
		Author:       input.Author,
		TotalPages:   input.TotalPages,
		CurrentPage:  0,
		Status:       status,
		StartDate:    time.Now(),
		LastReadDate: time.Now(),
		Notes:        input.Notes,
	}

	if err := db.DB.Create(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create book record"})
		return
	}

	invalidateCache(user.ID)
	c.JSON(http.StatusCreated, book)
}

func GetBooks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	query := db.DB.Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var books []models.BookRecord
	if err := query.Order("created_at DESC").Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list book records"})
		return
	}

	c.JSON(http.StatusOK, books)
}

func UpdateBook(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")
	var book models.BookRecord
	if err := db.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&book).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book record not found"})
		return
	}

	var input struct {
		CurrentPage *int    `json:"current_page"`
		Status      *string `json:"status" binding:"omitempty,oneof=reading completed planned"`
		Notes       *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	if input.CurrentPage != nil {
		if *input.CurrentPage < 0 || *input.CurrentPage > book.TotalPages {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current page out of range"})
			return
		}
		book.CurrentPage = *input.CurrentPage
		book.LastReadDate = time.Now()
	}
	if input.Status != nil {
		book.Status = *input.Status
	}
	if input.Notes != nil {
		book.Notes = *input.Notes
	}

	if err := db.DB.Save(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book record"})
		return
	}

	invalidateCache(user.ID)
	c.JSON(http.StatusOK, book)
}

func DeleteBook(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id := c.Param("id")
	result := db.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.BookRecord{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book record"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book record not found"})
		return
	}

	invalidateCache(user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Book record deleted"})
}
