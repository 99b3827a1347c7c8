package executor

import (
	"math"
	"testing"
	"time"
)

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		name       string
		attempt    int
		retryAfter string
		jitter     time.Duration
		want       time.Duration
	}{
		{"first attempt", 0, "", 0, 500 * time.Millisecond},
		{"second attempt", 1, "", 0, time.Second},
		{"with jitter", 2, "", 100 * time.Millisecond, 2100 * time.Millisecond},
		{"capped", 10, "", 0, 8 * time.Second},
		{"retry after seconds", 3, "2", 100 * time.Millisecond, 2 * time.Second},
		{"retry after fractional", 0, "1.5", 0, 1500 * time.Millisecond},
		{"retry after zero", 2, "0", 0, 0},
		{"negative retry after ignored", 0, "-1", 0, 500 * time.Millisecond},
		{"http date ignored", 1, "Wed, 21 Oct 2015 07:28:00 GMT", 0, time.Second},
		{"garbage ignored", 0, "soon", 0, 500 * time.Millisecond},
		{"huge retry after clamped", 0, "1e12", 0, time.Duration(math.MaxInt64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := backoffDelay(tt.attempt, tt.retryAfter, tt.jitter); got != tt.want {
				t.Errorf("backoffDelay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRandomJitterBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		if j := randomJitter(); j < 0 || j > backoffJitter {
			t.Fatalf("jitter %v out of bounds", j)
		}
	}
}
