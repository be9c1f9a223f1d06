package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_SharesOneExecution(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	var executions int32

	const callers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := flight.Do("standings:idn-liga-1-2025", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(20 * time.Millisecond)
				return "table", nil
			})
			if err != nil {
				t.Errorf("do: %v", err)
			}
			if val != "table" {
				t.Errorf("unexpected value: %v", val)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("expected one execution, got %d", got)
	}
}

func TestSingleFlight_DistinctKeysDoNotShare(t *testing.T) {
	t.Parallel()

	var flight SingleFlight
	a, _, sharedA := flight.Do("a", func() (any, error) { return 1, nil })
	b, _, sharedB := flight.Do("b", func() (any, error) { return 2, nil })

	if sharedA || sharedB {
		t.Fatalf("sequential calls must not share: a=%v b=%v", sharedA, sharedB)
	}
	if a != 1 || b != 2 {
		t.Fatalf("unexpected values: a=%v b=%v", a, b)
	}
}
