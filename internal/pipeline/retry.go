package pipeline

import (
	"math/rand/v2"
	"time"
)

// MaxAttempts is how many times a transform call is tried before the run
// fails.
const MaxAttempts = 3

// Backoff returns the wait before retry attempt n (0-indexed): base doubled
// per attempt, capped at 30s, plus up to 50% jitter. A zero base disables
// waiting.
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	d := base << uint(attempt)
	if d > 30*time.Second || d <= 0 {
		d = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(d)/2 + 1))
	return d + jitter
}
