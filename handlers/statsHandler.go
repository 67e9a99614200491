package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyplanner/StudyPlannerBackend/middleware"
	"github.com/studyplanner/StudyPlannerBackend/services"
	"github.com/studyplanner/StudyPlannerBackend/utils"
	"go.uber.org/zap"
)

// StatsCacheTTL is replaced from config at startup.
var StatsCacheTTL = 5 * time.Minute

func GetStatistics(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := services.UserDashboardStats(user.ID, StatsCacheTTL, utils.Logger)
	if err != nil {
		utils.Logger.Error("statistics_failed", zap.Uint("user_id", user.ID), zap.Error(err))
		utils.ErrorCount.WithLabelValues("statistics", "internal").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
