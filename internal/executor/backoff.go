package executor

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	backoffBase   = 0.5 // seconds
	backoffCap    = 8.0 // seconds
	backoffJitter = 250 * time.Millisecond
)

// backoffDelay returns the wait before the attempt following attempt
// (zero-based). A Retry-After header holding a non-negative number of
// seconds wins over the exponential schedule.
func backoffDelay(attempt int, retryAfter string, jitter time.Duration) time.Duration {
	if d, ok := parseRetryAfter(retryAfter); ok {
		return d
	}
	secs := math.Min(backoffBase*math.Pow(2, float64(attempt)), backoffCap)
	return time.Duration(secs*float64(time.Second)) + jitter
}

// parseRetryAfter accepts the delta-seconds form only.
func parseRetryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, false
	}
	// Clamp to the longest wait a time.Duration can hold.
	nanos := secs * float64(time.Second)
	if nanos >= math.MaxInt64 {
		return time.Duration(math.MaxInt64), true
	}
	return time.Duration(nanos), true
}

func randomJitter() time.Duration {
	return rand.N(backoffJitter)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
