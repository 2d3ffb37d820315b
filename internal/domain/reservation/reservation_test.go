package reservation

import (
	"errors"
	"testing"
	"time"

	"staybook/internal/domain/shared/daterange"
)

func stay(t *testing.T, startDay, endDay int) daterange.Range {
	t.Helper()
	r, err := daterange.New(
		time.Date(2026, time.June, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.June, endDay, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("daterange.New: %v", err)
	}
	return r
}

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stay    daterange.Range
		nightly int64
		want    int64
	}{
		{"four nights", stay(t, 1, 5), 10000, 40000},
		{"one night", stay(t, 1, 2), 12500, 12500},
		{"same day bills one night", stay(t, 3, 3), 9900, 9900},
		{"free listing", stay(t, 1, 5), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Quote(tt.nightly, tt.stay); got != tt.want {
				t.Errorf("Quote(%d, %v) = %d, want %d", tt.nightly, tt.stay, got, tt.want)
			}
		})
	}
}

func TestNewRecordsCreatedEvent(t *testing.T) {
	t.Parallel()

	r, err := New(CreateParams{
		ID:        "res-1",
		ListingID: "lst-1",
		GuestID:   "guest-1",
		Stay:      stay(t, 1, 5),
		Nightly:   10000,
		CreatedAt: time.Date(2026, time.May, 20, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.TotalPriceCents != 40000 {
		t.Errorf("TotalPriceCents = %d, want 40000", r.TotalPriceCents)
	}
	events := r.PendingEvents()
	if len(events) != 1 {
		t.Fatalf("pending events = %d, want 1", len(events))
	}
	created, ok := events[0].(ReservationCreated)
	if !ok {
		t.Fatalf("event type = %T, want ReservationCreated", events[0])
	}
	if created.ReservationID != "res-1" || created.TotalCents != 40000 {
		t.Errorf("unexpected event payload: %+v", created)
	}
}

func TestNewRequiresGuest(t *testing.T) {
	t.Parallel()

	_, err := New(CreateParams{
		ID:        "res-1",
		ListingID: "lst-1",
		Stay:      stay(t, 1, 5),
		Nightly:   10000,
	})
	if !errors.Is(err, ErrGuestRequired) {
		t.Fatalf("err = %v, want ErrGuestRequired", err)
	}
}

func TestNewRejectsInvalidStay(t *testing.T) {
	t.Parallel()

	bad := daterange.Range{
		Start: time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := New(CreateParams{
		ID:        "res-1",
		ListingID: "lst-1",
		GuestID:   "guest-1",
		Stay:      bad,
		Nightly:   10000,
	})
	if !errors.Is(err, daterange.ErrEndBeforeStart) {
		t.Fatalf("err = %v, want ErrEndBeforeStart", err)
	}
}
