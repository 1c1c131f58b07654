package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"easymode/internal/config"
)

// Client ships traces to an external observability sink. It is constructed
// once at startup and passed into components explicitly. A nil *Client is a
// valid no-op sink: absence of tracing must never produce errors.
type Client struct {
	url     string
	apiKey  string
	project string
	http    *http.Client

	mu    sync.Mutex
	spool []*Trace
}

// NewClient returns nil when no API key is configured; all methods are
// nil-safe, so callers never branch on it.
func NewClient(cfg *config.Config) *Client {
	if cfg.Trace.APIKey == "" {
		log.Printf("[Trace] API key not configured, tracing disabled")
		return nil
	}
	project := cfg.Trace.Project
	if project == "" {
		project = "easy-mode"
	}
	return &Client{
		url:     cfg.Trace.URL,
		apiKey:  cfg.Trace.APIKey,
		project: project,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Trace is one AI-operation record: input at start, output and feedback
// scores when it ends.
type Trace struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	UserID    uint                   `json:"userId,omitempty"`
	Input     map[string]interface{} `json:"input"`
	Output    map[string]interface{} `json:"output,omitempty"`
	Scores    []Score                `json:"scores,omitempty"`
	StartedAt time.Time              `json:"startedAt"`
	EndedAt   time.Time              `json:"endedAt"`

	client *Client
}

type Score struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason,omitempty"`
}

// StartTrace opens a trace. Returns nil on a nil client.
func (c *Client) StartTrace(name string, userID uint, input map[string]interface{}) *Trace {
	if c == nil {
		return nil
	}
	return &Trace{
		ID:        uuid.New().String(),
		Name:      name,
		UserID:    userID,
		Input:     input,
		StartedAt: time.Now(),
		client:    c,
	}
}

// Update attaches the operation's output.
func (t *Trace) Update(output map[string]interface{}) {
	if t == nil {
		return
	}
	t.Output = output
}

// AddScore appends a feedback score.
func (t *Trace) AddScore(name string, value float64, reason string) {
	if t == nil {
		return
	}
	t.Scores = append(t.Scores, Score{Name: name, Value: value, Reason: reason})
}

// End stamps the trace and spools it for the next flush.
func (t *Trace) End() {
	if t == nil || t.client == nil {
		return
	}
	t.EndedAt = time.Now()
	t.client.mu.Lock()
	t.client.spool = append(t.client.spool, t)
	t.client.mu.Unlock()
}

// Flush posts all spooled traces to the sink. Callers wrap this in
// BestEffort: a flush failure must never fail the primary operation.
func (c *Client) Flush(ctx context.Context) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	batch := c.spool
	c.spool = nil
	c.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"project": c.project,
		"traces":  batch,
	})
	if err != nil {
		return fmt.Errorf("failed to encode trace batch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build trace request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("trace flush failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("trace sink returned status %d", resp.StatusCode)
	}
	return nil
}

// PendingForTest returns the spooled trace count (testing only).
func (c *Client) PendingForTest() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.spool)
}
