package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"easymode/internal/memory"
)

// GET /memories?query=...&limit=5
func ListMemoriesHandler(store *memory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		query := c.Query("query")
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid limit"}})
				return
			}
			limit = parsed
		}
		entries, err := store.Retrieve(userId.(uint), query, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load memories"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"memories": entries})
	}
}

type StoreMemoryRequest struct {
	Type       string                 `json:"type"`
	Content    string                 `json:"content" binding:"required"`
	Metadata   map[string]interface{} `json:"metadata"`
	Importance int                    `json:"importance"`
}

// POST /memories
func StoreMemoryHandler(store *memory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, _ := c.Get("userId")
		var req StoreMemoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		kind := memory.Kind(req.Type)
		if req.Type == "" {
			// No explicit type: run the classifier; unclassifiable content is
			// stored as plain conversation.
			var ok bool
			if kind, req.Importance, ok = memory.Classify(req.Content); !ok {
				kind = memory.KindConversation
			}
		}
		id, err := store.Save(userId.(uint), kind, req.Content, req.Metadata, req.Importance)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to store memory"}})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "type": kind})
	}
}
