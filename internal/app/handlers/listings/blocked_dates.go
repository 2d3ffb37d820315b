package listings

import (
	"context"
	"time"

	"staybook/internal/app/handlers/support"
	"staybook/internal/app/uow"
	"staybook/internal/domain/availability"
	domainlistings "staybook/internal/domain/listings"
)

const GetBlockedDatesKey = "listing.blocked_dates"

// GetBlockedDatesQuery lists every day already taken by a confirmed
// reservation of the listing, for calendar rendering.
type GetBlockedDatesQuery struct {
	ListingID string
}

func (q GetBlockedDatesQuery) Key() string { return GetBlockedDatesKey }

type GetBlockedDatesHandler struct {
	factory uow.UoWFactory
}

func NewGetBlockedDatesHandler(factory uow.UoWFactory) *GetBlockedDatesHandler {
	return &GetBlockedDatesHandler{factory: factory}
}

func (h *GetBlockedDatesHandler) Handle(ctx context.Context, query GetBlockedDatesQuery) ([]time.Time, error) {
	unit, cleanup, err := support.BeginReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	listingID := domainlistings.ListingID(query.ListingID)
	if _, err := unit.Listings().ByID(ctx, listingID); err != nil {
		return nil, err
	}

	reservations, err := unit.Reservations().ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	schedule := availability.BuildSchedule(listingID, reservations)

	days := make([]time.Time, 0)
	for day := range schedule.BlockedDates() {
		days = append(days, day)
	}
	return days, nil
}
