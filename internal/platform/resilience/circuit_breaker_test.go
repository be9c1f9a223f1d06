package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThresholdAndRecovers(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	breaker := NewCircuitBreaker(3, 10*time.Second, 1)
	breaker.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if err := breaker.Allow(); err != nil {
			t.Fatalf("closed breaker refused request %d: %v", i, err)
		}
		breaker.RecordFailure()
	}

	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after threshold, got %v", err)
	}
	if got := breaker.State(); got != CircuitStateOpen {
		t.Fatalf("expected open state, got %s", got)
	}

	clock = clock.Add(11 * time.Second)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("half-open probe refused: %v", err)
	}
	breaker.RecordSuccess()

	if got := breaker.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", got)
	}
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	breaker := NewCircuitBreaker(1, 5*time.Second, 1)
	breaker.now = func() time.Time { return clock }

	breaker.RecordFailure()
	clock = clock.Add(6 * time.Second)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("first probe refused: %v", err)
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second concurrent probe should be refused, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	breaker := NewCircuitBreaker(1, 5*time.Second, 1)
	breaker.now = func() time.Time { return clock }

	breaker.RecordFailure()
	clock = clock.Add(6 * time.Second)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("probe refused: %v", err)
	}
	breaker.RecordFailure()

	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("breaker should reopen after failed probe, got %v", err)
	}
}
