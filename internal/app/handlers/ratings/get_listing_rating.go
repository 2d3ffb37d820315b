package ratings

import (
	"context"
	"errors"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/uow"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/ratings"
	"staybook/internal/domain/user"
)

const GetListingRatingKey = "rating.listing"

// GetListingRatingQuery reads the live average for a listing plus the
// viewer's own rating when a viewer is known.
type GetListingRatingQuery struct {
	ListingID string
	ViewerID  string
}

func (q GetListingRatingQuery) Key() string { return GetListingRatingKey }

type GetListingRatingHandler struct {
	factory uow.UoWFactory
}

func NewGetListingRatingHandler(factory uow.UoWFactory) *GetListingRatingHandler {
	return &GetListingRatingHandler{factory: factory}
}

func (h *GetListingRatingHandler) Handle(ctx context.Context, query GetListingRatingQuery) (*dto.ListingRating, error) {
	unit, cleanup, err := support.BeginReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	listingID := listings.ListingID(query.ListingID)
	if _, err := unit.Listings().ByID(ctx, listingID); err != nil {
		return nil, err
	}

	average, err := unit.Ratings().AverageForListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	result := &dto.ListingRating{
		ListingID:     query.ListingID,
		AverageRating: average,
	}

	if query.ViewerID != "" {
		mine, err := unit.Ratings().ByUserListing(ctx, user.ID(query.ViewerID), listingID)
		switch {
		case err == nil:
			value := mine.Value
			result.MyRating = &value
		case errors.Is(err, ratings.ErrNotFound):
			// viewer has not rated yet
		default:
			return nil, err
		}
	}
	return result, nil
}
