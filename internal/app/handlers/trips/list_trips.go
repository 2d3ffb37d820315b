package trips

import (
	"context"
	"errors"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/user"
)

const ListTripsKey = "trips.list"

// ListTripsQuery returns the caller's reservations paired with listing
// snapshots.
type ListTripsQuery struct {
	GuestID string
}

func (q ListTripsQuery) Key() string { return ListTripsKey }

type ListTripsHandler struct {
	factory uow.UoWFactory
}

func NewListTripsHandler(factory uow.UoWFactory) *ListTripsHandler {
	return &ListTripsHandler{factory: factory}
}

func (h *ListTripsHandler) Handle(ctx context.Context, query ListTripsQuery) ([]dto.Trip, error) {
	unit, cleanup, err := support.BeginReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	reservations, err := unit.Reservations().ListByGuest(ctx, user.ID(query.GuestID))
	if err != nil {
		return nil, err
	}

	trips := make([]dto.Trip, 0, len(reservations))
	cache := make(map[domainlistings.ListingID]dto.Listing)
	for _, r := range reservations {
		snapshot, ok := cache[r.ListingID]
		if !ok {
			listing, err := unit.Listings().ByID(ctx, r.ListingID)
			switch {
			case err == nil:
				snapshot = dto.ListingFromDomain(listing)
			case errors.Is(err, domainlistings.ErrNotFound):
				// listing removed upstream; keep the reservation visible
				snapshot = dto.Listing{ID: string(r.ListingID)}
			default:
				return nil, err
			}
			cache[r.ListingID] = snapshot
		}
		trips = append(trips, dto.Trip{
			Reservation: dto.ReservationFromDomain(r),
			Listing:     snapshot,
		})
	}
	return trips, nil
}
