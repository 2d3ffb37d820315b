package listings

import (
	"context"
	"errors"

	"staybook/internal/app/dto"
	handlercomments "staybook/internal/app/handlers/comments"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/ratings"
	"staybook/internal/domain/user"
)

const GetListingDetailKey = "listing.detail"

// GetListingDetailQuery assembles the full listing page in one read:
// listing, live average rating, the viewer's own rating, and the
// comment thread.
type GetListingDetailQuery struct {
	ListingID string
	ViewerID  string
}

func (q GetListingDetailQuery) Key() string { return GetListingDetailKey }

type GetListingDetailHandler struct {
	factory uow.UoWFactory
}

func NewGetListingDetailHandler(factory uow.UoWFactory) *GetListingDetailHandler {
	return &GetListingDetailHandler{factory: factory}
}

func (h *GetListingDetailHandler) Handle(ctx context.Context, query GetListingDetailQuery) (*dto.ListingDetail, error) {
	unit, cleanup, err := support.BeginReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	listingID := domainlistings.ListingID(query.ListingID)
	listing, err := unit.Listings().ByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	average, err := unit.Ratings().AverageForListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ListingDetail{
		Listing:       dto.ListingFromDomain(listing),
		AverageRating: average,
	}

	if query.ViewerID != "" {
		mine, err := unit.Ratings().ByUserListing(ctx, user.ID(query.ViewerID), listingID)
		switch {
		case err == nil:
			value := mine.Value
			detail.MyRating = &value
		case errors.Is(err, ratings.ErrNotFound):
		default:
			return nil, err
		}
	}

	rows, err := unit.Comments().ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	thread, err := handlercomments.ResolveAuthors(ctx, unit.Users(), rows)
	if err != nil {
		return nil, err
	}
	detail.Comments = thread
	return detail, nil
}
