package coach

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"easymode/internal/memory"
)

const (
	// memoriesPerTurn bounds how many retrieved memories a chat turn injects.
	memoriesPerTurn = 5
	// historyWindow is how many prior conversation turns are replayed.
	historyWindow = 6

	fallbackReply = "I'm here with you. Tell me a bit more about how today went and we'll find one small step together."
)

// Turn is one prior exchange in a chat conversation.
type Turn struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// ChatReply is the outcome of one chat turn.
type ChatReply struct {
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	Reply        string `json:"reply"`
	Confidence   int    `json:"confidence"` // 1..5
	Reflected    bool   `json:"reflected"`
	MemoryStored bool   `json:"memoryStored"`
}

// ChatTurn runs one coaching conversation turn: retrieve relevant memories,
// build the system prompt from them plus the user profile, send the last 6
// turns and the new message, and optionally run the self-reflection pass on
// the draft. Whether the message is persisted as a memory is decided by the
// classifier independent of the reflection outcome.
func (c *Coach) ChatTurn(ctx context.Context, userID uint, message string, history []Turn, selfReflect bool) (*ChatReply, error) {
	u := c.loadUser(userID)
	profile := c.profileFor(userID, time.Now())

	memories, err := c.memories.Retrieve(userID, message, memoriesPerTurn)
	if err != nil {
		log.Printf("[Coach] Memory retrieval failed for user %d: %v", userID, err)
		memories = nil
	}

	tr := c.trace.StartTrace("coach_chat", userID, map[string]interface{}{
		"memories": len(memories),
		"turns":    len(history),
	})
	defer func() {
		tr.End()
		c.flushTraces()
	}()

	stored := c.persistMemory(userID, message)

	system := chatSystemPrompt(u, profile, memories)
	draft, err := c.llm.Complete(ctx, system, chatTranscript(history, message))
	if err != nil {
		log.Printf("[Coach] Chat failed for user %d: %v", userID, err)
		tr.Update(map[string]interface{}{"error": err.Error()})
		return &ChatReply{
			Success:      false,
			Error:        err.Error(),
			Reply:        fallbackReply,
			Confidence:   1,
			MemoryStored: stored,
		}, nil
	}

	reply := draft
	confidence := maxConfidence
	reflected := false
	if selfReflect {
		if critique := c.Reflect(ctx, message, draft); critique != nil {
			confidence = critique.Score
			if critique.Score < ReflectionThreshold {
				reply, confidence = c.refine(ctx, system, message, draft, critique)
				reflected = true
			}
			tr.AddScore("reflection", float64(critique.Score), strings.Join(critique.Issues, "; "))
		}
	}

	tr.Update(map[string]interface{}{"reflected": reflected, "confidence": confidence})
	return &ChatReply{
		Success:      true,
		Reply:        reply,
		Confidence:   confidence,
		Reflected:    reflected,
		MemoryStored: stored,
	}, nil
}

// persistMemory applies the store-decision classifier to the raw message.
func (c *Coach) persistMemory(userID uint, message string) bool {
	kind, importance, ok := memory.Classify(message)
	if !ok {
		return false
	}
	if _, err := c.memories.Save(userID, kind, message, nil, importance); err != nil {
		log.Printf("[Coach] Failed to store memory for user %d: %v", userID, err)
		return false
	}
	return true
}

// chatTranscript flattens the trailing history window and the new message
// into the user prompt.
func chatTranscript(history []Turn, message string) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	var b strings.Builder
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	fmt.Fprintf(&b, "user: %s", message)
	return b.String()
}
