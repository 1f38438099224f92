package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "resume text", limit: 0, expect: ""},
		{name: "fits", input: "Go, SQL", limit: 10, expect: "Go, SQL"},
		{name: "cut with ellipsis", input: "Kubernetes", limit: 4, expect: "Kube..."},
		{name: "counts runes", input: "résumé", limit: 3, expect: "rés..."},
		{name: "trims first", input: "  padded  ", limit: 6, expect: "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestWaitFor(t *testing.T) {
	original := sleep
	t.Cleanup(func() { sleep = original })

	var slept time.Duration
	sleep = func(d time.Duration) { slept = d }

	if err := WaitFor(context.Background(), 2*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != 2*time.Second {
		t.Fatalf("expected to sleep 2s, slept %v", slept)
	}

	slept = 0
	if err := WaitFor(context.Background(), 0); err != nil || slept != 0 {
		t.Fatalf("zero duration must return immediately, err=%v slept=%v", err, slept)
	}
}

func TestWaitForCancelled(t *testing.T) {
	original := sleep
	t.Cleanup(func() { sleep = original })

	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	sleep = func(time.Duration) { <-block }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
