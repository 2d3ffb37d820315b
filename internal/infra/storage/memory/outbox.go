package memory

import (
	"context"
	"sync"

	"staybook/internal/app/outbox"
)

// Publisher receives flushed outbox records.
type Publisher interface {
	Publish(ctx context.Context, record outbox.EventRecord) error
}

// Outbox buffers event records and hands them to the publisher on
// Flush. Records that fail to publish stay queued for the next flush.
type Outbox struct {
	mu        sync.Mutex
	pending   []outbox.EventRecord
	publisher Publisher
}

func NewOutbox(publisher Publisher) *Outbox {
	return &Outbox{publisher: publisher}
}

func (o *Outbox) Add(_ context.Context, record outbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	queue := o.pending
	o.pending = nil
	o.mu.Unlock()

	if o.publisher == nil {
		return nil
	}
	for i, record := range queue {
		if err := o.publisher.Publish(ctx, record); err != nil {
			o.mu.Lock()
			o.pending = append(queue[i:], o.pending...)
			o.mu.Unlock()
			return err
		}
	}
	return nil
}

// Pending returns a snapshot of unflushed records, mainly for tests and
// health reporting.
func (o *Outbox) Pending() []outbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]outbox.EventRecord, len(o.pending))
	copy(out, o.pending)
	return out
}
