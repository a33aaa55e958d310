package timesync

import (
	"context"
	"time"
)

// pollUntil calls cond every interval until it returns true, the timeout
// elapses, or ctx is canceled. It reports whether cond succeeded. cond is
// evaluated once immediately, so an already-true condition never waits.
func pollUntil(ctx context.Context, timeout, interval time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
}
