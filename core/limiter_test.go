package core

import "testing"

func TestTurnLimiter_Begin(t *testing.T) {
	tl := NewTurnLimiter(2)

	if err := tl.Begin(); err != nil {
		t.Fatalf("turn 1 should be allowed: %v", err)
	}
	if err := tl.Begin(); err != nil {
		t.Fatalf("turn 2 should be allowed: %v", err)
	}

	err := tl.Begin()
	if err == nil {
		t.Fatal("turn 3 should exceed the ceiling")
	}
	if !FailureIs(err, FailureTurnLimit) {
		t.Fatalf("expected turn limit failure, got %v", err)
	}
}

func TestTurnLimiter_Unlimited(t *testing.T) {
	tl := NewTurnLimiter(0)
	for i := 0; i < 100; i++ {
		if err := tl.Begin(); err != nil {
			t.Fatalf("unlimited limiter rejected turn %d: %v", i+1, err)
		}
	}
	if tl.Remaining() != -1 {
		t.Fatalf("unlimited limiter Remaining = %d, want -1", tl.Remaining())
	}
}

func TestTurnLimiter_CountAndRemaining(t *testing.T) {
	tl := NewTurnLimiter(5)
	_ = tl.Begin()
	_ = tl.Begin()
	if tl.Count() != 2 {
		t.Fatalf("Count = %d, want 2", tl.Count())
	}
	if tl.Remaining() != 3 {
		t.Fatalf("Remaining = %d, want 3", tl.Remaining())
	}
}
