package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"easymode/internal/coach"
)

// GET /recommendations
func RecommendationsHandler(co *coach.Coach) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		rec, err := co.Recommend(c.Request.Context(), userId.(uint), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to build recommendation"}})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// POST /coach/decide
func CoachDecideHandler(co *coach.Coach) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		decision, err := co.Decide(c.Request.Context(), userId.(uint), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to decide"}})
			return
		}
		c.JSON(http.StatusOK, decision)
	}
}

type CoachChatRequest struct {
	Message     string       `json:"message" binding:"required"`
	History     []coach.Turn `json:"history"`
	SelfReflect *bool        `json:"selfReflect"`
}

// POST /coach/chat
func CoachChatHandler(co *coach.Coach) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req CoachChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		selfReflect := true
		if req.SelfReflect != nil {
			selfReflect = *req.SelfReflect
		}
		reply, err := co.ChatTurn(c.Request.Context(), userId.(uint), req.Message, req.History, selfReflect)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Chat failed"}})
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}

type PersonalizeRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// POST /coach/personalize
func PersonalizeHandler(co *coach.Coach) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req PersonalizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		p, err := co.PersonalizeTask(c.Request.Context(), userId.(uint), req.Title, req.Description, req.Type)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Personalization failed"}})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// GET /coach/insight
func InsightHandler(co *coach.Coach) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		insight, err := co.DailyInsight(c.Request.Context(), userId.(uint), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Insight failed"}})
			return
		}
		c.JSON(http.StatusOK, insight)
	}
}

// GET /coach/nudge
func NudgeHandler(co *coach.Coach) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		nudge, err := co.ProactiveNudge(c.Request.Context(), userId.(uint), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Nudge failed"}})
			return
		}
		c.JSON(http.StatusOK, nudge)
	}
}

type ResilienceRequest struct {
	Setback string `json:"setback" binding:"required"`
}

// POST /coach/resilience
func ResilienceHandler(co *coach.Coach) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req ResilienceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		support, err := co.ResilienceSupport(c.Request.Context(), userId.(uint), req.Setback)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Support failed"}})
			return
		}
		c.JSON(http.StatusOK, support)
	}
}
