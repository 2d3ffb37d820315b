package ratings

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/user"
)

var (
	ErrValueOutOfRange = errors.New("ratings: value must be between 1 and 5")
	ErrUserRequired    = errors.New("ratings: user id is required")
	ErrNotFound        = errors.New("ratings: not found")
)

type RatingID string

// Rating is a single user's 1-5 score for a listing. At most one live row
// exists per (user, listing) pair; a repeat submission overwrites the
// value in place and keeps the original identity and creation time.
type Rating struct {
	ID        RatingID
	ListingID listings.ListingID
	UserID    user.ID
	Value     int
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	// Upsert stores the rating keyed by its (user, listing) pair as one
	// atomic store operation: no read-then-branch client side. When a row
	// already exists its value is overwritten and its identifier and
	// creation time survive. The stored row is returned.
	Upsert(ctx context.Context, r *Rating) (*Rating, error)

	ByUserListing(ctx context.Context, userID user.ID, listingID listings.ListingID) (*Rating, error)

	// AverageForListing recomputes the arithmetic mean over all live
	// ratings of the listing. Nil means "unrated", distinct from a zero
	// average.
	AverageForListing(ctx context.Context, listingID listings.ListingID) (*float64, error)
}

type UpsertParams struct {
	ID        RatingID
	ListingID listings.ListingID
	UserID    user.ID
	Value     int
	Now       time.Time
}

func New(params UpsertParams) (*Rating, error) {
	if params.Value < 1 || params.Value > 5 {
		return nil, ErrValueOutOfRange
	}
	if strings.TrimSpace(string(params.UserID)) == "" {
		return nil, ErrUserRequired
	}
	now := params.Now.UTC()
	r := &Rating{
		ID:        params.ID,
		ListingID: params.ListingID,
		UserID:    params.UserID,
		Value:     params.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Record(RatingUpserted{
		RatingID:  r.ID,
		ListingID: r.ListingID,
		UserID:    r.UserID,
		Value:     r.Value,
		At:        now,
	})
	return r, nil
}
