package reservation

import (
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/user"
)

type ReservationCreated struct {
	ReservationID ReservationID
	ListingID     listings.ListingID
	GuestID       user.ID
	Stay          daterange.Range
	TotalCents    int64
	At            time.Time
}

func (e ReservationCreated) EventName() string     { return "reservation.created" }
func (e ReservationCreated) AggregateID() string   { return string(e.ReservationID) }
func (e ReservationCreated) OccurredAt() time.Time { return e.At }
