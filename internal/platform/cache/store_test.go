package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errUnexpectedValue = errors.New("unexpected value")

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := store.GetOrLoad(context.Background(), "standings:s1", loader)
		if err != nil {
			t.Fatalf("get or load: %v", err)
		}
		if got, _ := v.(int); got != 42 {
			t.Fatalf("unexpected value: %v", v)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_Delete_ForcesReload(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "table", nil
	}

	ctx := context.Background()
	if _, err := store.GetOrLoad(ctx, "standings:s1", loader); err != nil {
		t.Fatalf("get or load: %v", err)
	}
	store.Delete(ctx, "standings:s1")
	if _, err := store.GetOrLoad(ctx, "standings:s1", loader); err != nil {
		t.Fatalf("get or load after delete: %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	wantErr := errors.New("store unavailable")
	var calls atomic.Int32

	failing := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, wantErr
	}

	ctx := context.Background()
	if _, err := store.GetOrLoad(ctx, "k", failing); !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, err := store.GetOrLoad(ctx, "k", failing); !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error on retry, got %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}
