package api

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"easymode/internal/db"
	"easymode/internal/llm"
	"easymode/internal/user"
)

func setupUserDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	db.DB = dbConn
	return dbConn
}

func resetTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"users", "completed_tasks", "audacity_attempts", "analytics_events", "available_tasks", "entries", "weekly_plans"} {
		if err := db.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s table: %v", table, err)
		}
	}
}

func seedUser(t *testing.T, username string, role string) user.User {
	t.Helper()
	u := user.User{Username: username, PasswordHash: "hash", Role: user.Role(role), Level: 1, CreatedAt: time.Now()}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

// asUser injects an authenticated identity the way the middleware would.
func asUser(userId uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userId)
		c.Next()
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// stubCompleter scripts LLM behavior for handler tests.
type stubCompleter struct {
	text    string
	jsonOut string
	err     error
}

func (s *stubCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubCompleter) CompleteJSON(ctx context.Context, system, prompt string, out interface{}) error {
	if s.err != nil {
		return s.err
	}
	return json.Unmarshal([]byte(s.jsonOut), out)
}

// stubToolCaller immediately finishes the tool loop with plain text.
type stubToolCaller struct {
	err error
}

func (s *stubToolCaller) ChatWithTools(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.ToolResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ToolResponse{Content: "plan summary"}, nil
}

var errStubOffline = errors.New("model offline")
