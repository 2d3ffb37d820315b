package middleware_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/middleware"
	"staybook/internal/infra/storage/memory"
)

type chargeCommand struct {
	IdemKey string
}

func (chargeCommand) Key() string { return "test.charge" }

func (c chargeCommand) IdempotencyKey() string { return c.IdemKey }

func (chargeCommand) ResultPrototype() any { return &chargeResult{} }

type chargeResult struct {
	ChargeID string `json:"charge_id"`
}

// countingBus executes slowly so concurrent dispatches overlap in time.
type countingBus struct {
	mu    sync.Mutex
	calls int
}

func (b *countingBus) Dispatch(_ context.Context, _ commands.Command) (any, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	return &chargeResult{ChargeID: "chg-1"}, nil
}

func (b *countingBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func TestConcurrentSameKeyExecutesOnce(t *testing.T) {
	t.Parallel()

	base := &countingBus{}
	bus := middleware.Idempotency(memory.NewIdempotencyStore(time.Hour), nil)(base)

	const racers = 8
	results := make(chan *chargeResult, racers)
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := commands.Dispatch[chargeCommand, *chargeResult](
				context.Background(), bus, chargeCommand{IdemKey: "retry-123"},
			)
			results <- res
			errs <- err
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}
	for res := range results {
		if res == nil || res.ChargeID != "chg-1" {
			t.Errorf("result = %+v, want the executed outcome replayed", res)
		}
	}
	if got := base.count(); got != 1 {
		t.Errorf("handler executed %d times for one key, want 1", got)
	}
}

func TestDistinctKeysDoNotSerialize(t *testing.T) {
	t.Parallel()

	base := &countingBus{}
	bus := middleware.Idempotency(memory.NewIdempotencyStore(time.Hour), nil)(base)

	for _, key := range []string{"key-a", "key-b"} {
		if _, err := commands.Dispatch[chargeCommand, *chargeResult](
			context.Background(), bus, chargeCommand{IdemKey: key},
		); err != nil {
			t.Fatalf("dispatch %s: %v", key, err)
		}
	}
	if got := base.count(); got != 2 {
		t.Errorf("handler executed %d times for two keys, want 2", got)
	}
}
