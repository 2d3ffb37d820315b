package reservations

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	"staybook/internal/domain/availability"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/user"
)

const CreateReservationKey = "reservation.create"

// CreateReservationCommand books a listing for an inclusive date range.
type CreateReservationCommand struct {
	CommandID       string
	ListingID       string
	GuestID         string
	Start           time.Time
	End             time.Time
	IdempotencyKeyV string
}

func (c CreateReservationCommand) Key() string { return CreateReservationKey }

func (c CreateReservationCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateReservationCommand) ResultPrototype() any { return &CreateReservationResult{} }

type CreateReservationResult struct {
	ReservationID   string    `json:"reservation_id"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Start           time.Time `json:"start_date"`
	End             time.Time `json:"end_date"`
}

type CreateReservationHandler struct {
	encoder outbox.EventEncoder
	box     outbox.Outbox
	logger  *slog.Logger
	now     func() time.Time
}

type CreateReservationHandlerParams struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func NewCreateReservationHandler(params CreateReservationHandlerParams) *CreateReservationHandler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := params.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &CreateReservationHandler{
		encoder: params.Encoder,
		box:     params.Outbox,
		logger:  logger,
		now:     nowFn,
	}
}

// Handle admits the stay against the listing schedule, prices it, and
// inserts the row through the repository's atomic create. The schedule
// check gives early, friendly rejection; the store-level re-check inside
// Create is what actually guarantees no double booking under concurrency.
func (h *CreateReservationHandler) Handle(ctx context.Context, cmd CreateReservationCommand) (*CreateReservationResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	listing, err := unit.Listings().ByID(ctx, listings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}

	stay, err := daterange.New(cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}

	existing, err := unit.Reservations().ListByListing(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	schedule := availability.BuildSchedule(listing.ID, existing)
	if err := schedule.Admit(stay); err != nil {
		if errors.Is(err, availability.ErrRangeTaken) {
			return nil, reservation.ErrDateConflict
		}
		return nil, err
	}

	id := cmd.CommandID
	if id == "" {
		id = uuid.NewString()
	}
	booking, err := reservation.New(reservation.CreateParams{
		ID:        reservation.ReservationID(id),
		ListingID: listing.ID,
		GuestID:   user.ID(cmd.GuestID),
		Stay:      stay,
		Nightly:   listing.NightlyPriceCents,
		CreatedAt: h.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Reservations().Create(ctx, booking); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.box, h.encoder, booking.PendingEvents()); err != nil {
		return nil, err
	}
	booking.ClearEvents()

	h.logger.Info("reservation created",
		"reservation_id", booking.ID,
		"listing_id", booking.ListingID,
		"guest_id", booking.GuestID,
		"total_cents", booking.TotalPriceCents,
	)

	return &CreateReservationResult{
		ReservationID:   string(booking.ID),
		TotalPriceCents: booking.TotalPriceCents,
		Start:           booking.Stay.Start,
		End:             booking.Stay.End,
	}, nil
}
