package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyplanner/StudyPlannerBackend/backup"
	"github.com/studyplanner/StudyPlannerBackend/db"
	"github.com/studyplanner/StudyPlannerBackend/utils"
	"go.uber.org/zap"
)

// GetBackup streams a full-store snapshot. Admin only.
func GetBackup(c *gin.Context) {
	archive, err := backup.Snapshot(db.DB)
	if err != nil {
		utils.Logger.Error("backup_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}

	filename := fmt.Sprintf("backup-%s.json", time.Now().Format("2006-01-02-15-04"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.JSON(http.StatusOK, archive)
}

// RestoreBackup replaces the whole store with the posted snapshot. Admin only.
func RestoreBackup(c *gin.Context) {
	var archive backup.Archive
	if err := c.ShouldBindJSON(&archive); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backup payload"})
		return
	}

	if err := backup.Restore(db.DB, archive); err != nil {
		utils.Logger.Error("restore_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Restore failed"})
		return
	}

	utils.Logger.Info("store_restored",
		zap.Int("users", len(archive.Users)),
		zap.Int("goals", len(archive.Goals)),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Restore completed"})
}
