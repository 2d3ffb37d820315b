package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/user"
)

var (
	ErrGuestRequired = errors.New("reservation: guest id is required")
	ErrDateConflict  = errors.New("reservation: dates conflict with an existing reservation")
	ErrNotFound      = errors.New("reservation: not found")
)

type ReservationID string

// Reservation is a confirmed booking of a listing for an inclusive date
// range. Rows are immutable after creation; cancellation is handled by an
// external service that deletes the row outright.
type Reservation struct {
	ID              ReservationID
	ListingID       listings.ListingID
	GuestID         user.ID
	Stay            daterange.Range
	TotalPriceCents int64
	CreatedAt       time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ReservationID) (*Reservation, error)
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Reservation, error)
	ListByGuest(ctx context.Context, guestID user.ID) ([]*Reservation, error)

	// Create atomically re-checks the stay against existing reservations
	// on the same listing and inserts the row, returning ErrDateConflict
	// when another reservation claimed any of the days first. The
	// check-and-insert must be a single step in the store so two
	// concurrent requests for contested dates cannot both succeed.
	Create(ctx context.Context, r *Reservation) error
}

type CreateParams struct {
	ID        ReservationID
	ListingID listings.ListingID
	GuestID   user.ID
	Stay      daterange.Range
	Nightly   int64
	CreatedAt time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if strings.TrimSpace(string(params.GuestID)) == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Stay.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	r := &Reservation{
		ID:              params.ID,
		ListingID:       params.ListingID,
		GuestID:         params.GuestID,
		Stay:            params.Stay,
		TotalPriceCents: Quote(params.Nightly, params.Stay),
		CreatedAt:       now,
	}
	r.Record(ReservationCreated{
		ReservationID: r.ID,
		ListingID:     r.ListingID,
		GuestID:       r.GuestID,
		Stay:          r.Stay,
		TotalCents:    r.TotalPriceCents,
		At:            now,
	})
	return r, nil
}

// Quote prices a stay at nightly rate times the night count. A degenerate
// same-day range still bills one night rather than erroring out.
func Quote(nightlyCents int64, stay daterange.Range) int64 {
	return int64(stay.Nights()) * nightlyCents
}
