package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"easymode/internal/behavior"
	"easymode/internal/db"
	"easymode/internal/progress"
	"easymode/internal/scoring"
)

type CompleteTaskRequest struct {
	TaskID          string  `json:"taskId"`
	Title           string  `json:"title"`
	Type            string  `json:"type" binding:"required"`
	Category        string  `json:"category"`
	DurationSeconds float64 `json:"durationSeconds"`
	Outcome         string  `json:"outcome"`
}

// POST /tasks/complete
func CompleteTaskHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req CompleteTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}

		result, err := progress.CompleteTask(db.DB, userId.(uint), progress.CompleteRequest{
			TaskID:          req.TaskID,
			Title:           req.Title,
			Type:            req.Type,
			Category:        req.Category,
			DurationSeconds: req.DurationSeconds,
			Outcome:         req.Outcome,
		}, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to record completion"}})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /tasks/available
func AvailableTasksHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tasks []scoring.AvailableTask
		if err := db.DB.Order("id asc").Find(&tasks).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load tasks"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
	}
}

// GET /profile/behavior
func BehaviorProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		profile, err := behavior.AnalyzeUser(db.DB, userId.(uint), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to build profile"}})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
