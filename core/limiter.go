package core

import "sync"

// TurnLimiter enforces a maximum number of model turns per run. A turn is one
// full model-invocation-and-response cycle; nested agent-tool runs carry their
// own limiter and do not count against the parent's budget.
type TurnLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewTurnLimiter creates a limiter with a maximum number of turns.
// If max == 0, unlimited turns are allowed.
func NewTurnLimiter(max int) *TurnLimiter {
	return &TurnLimiter{max: max}
}

// Begin registers entry into a model turn. It returns a TurnLimitExceeded
// failure when the configured ceiling would be crossed.
func (tl *TurnLimiter) Begin() error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.count++
	if tl.max > 0 && tl.count > tl.max {
		return NewTurnLimitFailure(tl.max)
	}

	return nil
}

// Count returns the number of turns begun so far.
func (tl *TurnLimiter) Count() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	return tl.count
}

// Remaining returns how many turns are left before the ceiling, or -1 when
// unlimited.
func (tl *TurnLimiter) Remaining() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.max == 0 {
		return -1
	}

	return tl.max - tl.count
}
