package authcore

import (
	"errors"
	"testing"
	"time"
)

func TestLockedErrorMatchesSentinel(t *testing.T) {
	err := error(&LockedError{Remaining: 10 * time.Minute})
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatal("LockedError should match ErrAccountLocked")
	}
}

func TestLockedErrorRemainingMinutes(t *testing.T) {
	cases := []struct {
		remaining time.Duration
		want      int
	}{
		{15 * time.Minute, 15},
		{14*time.Minute + time.Second, 15}, // rounds up
		{30 * time.Second, 1},
		{0, 1}, // never reports zero while locked
	}
	for _, tc := range cases {
		err := &LockedError{Remaining: tc.remaining}
		if got := err.RemainingMinutes(); got != tc.want {
			t.Errorf("RemainingMinutes(%v) = %d, want %d", tc.remaining, got, tc.want)
		}
	}
}
