package dto

import (
	"time"

	"staybook/internal/domain/reservation"
)

type Reservation struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listing_id"`
	GuestID         string    `json:"guest_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

func ReservationFromDomain(r *reservation.Reservation) Reservation {
	return Reservation{
		ID:              string(r.ID),
		ListingID:       string(r.ListingID),
		GuestID:         string(r.GuestID),
		StartDate:       r.Stay.Start,
		EndDate:         r.Stay.End,
		TotalPriceCents: r.TotalPriceCents,
		CreatedAt:       r.CreatedAt,
	}
}

// Trip pairs a guest reservation with a snapshot of the listing it books,
// so trip lists render without a second round trip.
type Trip struct {
	Reservation Reservation `json:"reservation"`
	Listing     Listing     `json:"listing"`
}
