package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"easymode/internal/config"
)

// Message is one push notification addressed by device token.
type Message struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Sender posts push notifications to the configured delivery endpoint.
// A nil *Sender is a valid no-op: absence of a push URL disables delivery
// without touching the callers.
type Sender struct {
	url  string
	http *http.Client
}

func NewSender(cfg *config.Config) *Sender {
	if cfg.Push.URL == "" {
		log.Printf("[Notify] Push URL not configured, notifications disabled")
		return nil
	}
	return &Sender{
		url:  cfg.Push.URL,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send delivers a single notification.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if s == nil {
		return nil
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("push delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// SendEach delivers a batch best-effort: per-recipient failures are logged
// and counted, never fatal to the rest of the batch. Returns the number
// delivered.
func (s *Sender) SendEach(ctx context.Context, msgs []Message) int {
	if s == nil {
		return 0
	}
	sent := 0
	for _, msg := range msgs {
		if err := s.Send(ctx, msg); err != nil {
			log.Printf("[Notify] Delivery failed for token %s...: %v", truncateToken(msg.Token), err)
			continue
		}
		sent++
	}
	return sent
}

// truncateToken keeps logs from leaking full device tokens.
func truncateToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
