package trace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"easymode/internal/config"
)

func TestNewClient_DisabledWithoutKey(t *testing.T) {
	cfg := &config.Config{}
	c := NewClient(cfg)
	if c != nil {
		t.Fatalf("expected nil client without api key")
	}
	// Everything is a no-op on nil, never an error.
	tr := c.StartTrace("op", 1, nil)
	tr.Update(map[string]interface{}{"out": 1})
	tr.AddScore("quality", 5, "")
	tr.End()
	if err := c.Flush(context.Background()); err != nil {
		t.Errorf("nil client flush should be nil, got %v", err)
	}
}

func TestFlush_PostsSpooledTraces(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if got := r.Header.Get("Authorization"); got != "Bearer tk" {
			t.Errorf("missing auth header, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Trace.URL = srv.URL
	cfg.Trace.APIKey = "tk"
	c := NewClient(cfg)

	tr := c.StartTrace("coach_decides", 7, map[string]interface{}{"candidates": 5})
	tr.Update(map[string]interface{}{"taskId": "t1"})
	tr.AddScore("decision_confidence", 4, "clear pick")
	tr.End()

	if c.PendingForTest() != 1 {
		t.Fatalf("expected 1 spooled trace, got %d", c.PendingForTest())
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected 1 sink call, got %d", calls)
	}
	if c.PendingForTest() != 0 {
		t.Errorf("spool should be drained after flush")
	}
	// Empty spool: no request issued.
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("empty flush should not call the sink")
	}
}

func TestBestEffort_SwallowsErrorAndTimeout(t *testing.T) {
	// Errors are swallowed.
	BestEffort("failing flush", time.Second, func(ctx context.Context) error {
		return errors.New("sink down")
	})

	// A hanging fn is abandoned at the timeout; BestEffort returns.
	start := time.Now()
	BestEffort("hanging flush", 50*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(time.Second)
		return ctx.Err()
	})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("BestEffort should return at the timeout, took %s", elapsed)
	}
}
