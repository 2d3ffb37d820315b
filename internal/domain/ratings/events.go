package ratings

import (
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/user"
)

type RatingUpserted struct {
	RatingID  RatingID
	ListingID listings.ListingID
	UserID    user.ID
	Value     int
	At        time.Time
}

func (e RatingUpserted) EventName() string     { return "rating.upserted" }
func (e RatingUpserted) AggregateID() string   { return string(e.RatingID) }
func (e RatingUpserted) OccurredAt() time.Time { return e.At }
