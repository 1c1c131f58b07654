package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"easymode/internal/agent"
	"easymode/internal/db"
)

type GeneratePlanRequest struct {
	WeekNumber int  `json:"weekNumber" binding:"required"`
	Force      bool `json:"force"`
}

// POST /plans/weekly
func GeneratePlanHandler(planner *agent.Planner) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req GeneratePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if req.WeekNumber < 1 || req.WeekNumber > 4 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "weekNumber must be 1 to 4"}})
			return
		}

		result, err := planner.GeneratePlan(c.Request.Context(), userId.(uint), req.WeekNumber, req.Force, time.Now())
		if err != nil {
			// Plan generation deliberately has no fallback: model failures
			// surface to the caller.
			if errors.Is(err, agent.ErrPlanGeneration) {
				c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": "Plan generation failed"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to generate plan"}})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /plans/weekly/:week
func GetPlanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		week, err := strconv.Atoi(c.Param("week"))
		if err != nil || week < 1 || week > 4 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid week number"}})
			return
		}
		var plan agent.WeeklyPlan
		if err := db.DB.Where("user_id = ? AND week_number = ?", userId.(uint), week).First(&plan).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "No plan for that week"}})
			return
		}
		c.JSON(http.StatusOK, plan)
	}
}
