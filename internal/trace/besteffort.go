package trace

import (
	"context"
	"log"
	"time"
)

// FlushTimeout bounds any telemetry flush; telemetry is best-effort and
// must never block or fail the primary operation.
const FlushTimeout = 5 * time.Second

// BestEffort runs fn with a timeout and swallows any failure, logging it.
// It is applied uniformly at every telemetry call site instead of
// duplicating timeout-and-ignore logic per entry point.
func BestEffort(name string, timeout time.Duration, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("[Trace] %s failed (non-fatal): %v", name, err)
		}
	case <-ctx.Done():
		log.Printf("[Trace] %s timed out after %s (non-fatal)", name, timeout)
	}
}
