package dto

import (
	"time"

	"staybook/internal/domain/ratings"
)

type Rating struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func RatingFromDomain(r *ratings.Rating) Rating {
	return Rating{
		ID:        string(r.ID),
		ListingID: string(r.ListingID),
		UserID:    string(r.UserID),
		Value:     r.Value,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ListingRating is the read model for a listing's rating block.
type ListingRating struct {
	ListingID     string   `json:"listing_id"`
	AverageRating *float64 `json:"average_rating"`
	MyRating      *int     `json:"my_rating,omitempty"`
}
