package dto

import (
	"time"

	"staybook/internal/domain/listings"
)

type Listing struct {
	ID                string    `json:"id"`
	HostID            string    `json:"host_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	NightlyPriceCents int64     `json:"nightly_price_cents"`
	GuestCount        int       `json:"guest_count"`
	RoomCount         int       `json:"room_count"`
	BathroomCount     int       `json:"bathroom_count"`
	CreatedAt         time.Time `json:"created_at"`
}

func ListingFromDomain(l *listings.Listing) Listing {
	return Listing{
		ID:                string(l.ID),
		HostID:            string(l.Host),
		Title:             l.Title,
		Description:       l.Description,
		NightlyPriceCents: l.NightlyPriceCents,
		GuestCount:        l.GuestCount,
		RoomCount:         l.RoomCount,
		BathroomCount:     l.BathroomCount,
		CreatedAt:         l.CreatedAt,
	}
}

// ListingDetail is the aggregated read model for a listing page: the
// listing itself, the live average rating, the viewer's own rating when
// present, and the comment thread with author snapshots.
type ListingDetail struct {
	Listing       Listing   `json:"listing"`
	AverageRating *float64  `json:"average_rating"`
	MyRating      *int      `json:"my_rating,omitempty"`
	Comments      []Comment `json:"comments"`
}
