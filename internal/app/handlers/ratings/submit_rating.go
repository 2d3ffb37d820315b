package ratings

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/dto"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/ratings"
	"staybook/internal/domain/user"
)

const SubmitRatingKey = "rating.submit"

// SubmitRatingCommand records or overwrites the caller's rating of a
// listing. Submitting twice never creates a second row.
type SubmitRatingCommand struct {
	ListingID string
	UserID    string
	Value     int
}

func (c SubmitRatingCommand) Key() string { return SubmitRatingKey }

type SubmitRatingResult struct {
	Rating        dto.Rating `json:"rating"`
	AverageRating *float64   `json:"average_rating"`
}

type SubmitRatingHandler struct {
	encoder outbox.EventEncoder
	box     outbox.Outbox
	logger  *slog.Logger
	now     func() time.Time
}

type SubmitRatingHandlerParams struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func NewSubmitRatingHandler(params SubmitRatingHandlerParams) *SubmitRatingHandler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := params.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &SubmitRatingHandler{
		encoder: params.Encoder,
		box:     params.Outbox,
		logger:  logger,
		now:     nowFn,
	}
}

func (h *SubmitRatingHandler) Handle(ctx context.Context, cmd SubmitRatingCommand) (*SubmitRatingResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	listingID := listings.ListingID(cmd.ListingID)
	if _, err := unit.Listings().ByID(ctx, listingID); err != nil {
		return nil, err
	}

	rating, err := ratings.New(ratings.UpsertParams{
		ID:        ratings.RatingID(uuid.NewString()),
		ListingID: listingID,
		UserID:    user.ID(cmd.UserID),
		Value:     cmd.Value,
		Now:       h.now(),
	})
	if err != nil {
		return nil, err
	}

	stored, err := unit.Ratings().Upsert(ctx, rating)
	if err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.box, h.encoder, rating.PendingEvents()); err != nil {
		return nil, err
	}
	rating.ClearEvents()

	average, err := unit.Ratings().AverageForListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("rating submitted",
		"rating_id", stored.ID,
		"listing_id", stored.ListingID,
		"user_id", stored.UserID,
		"value", stored.Value,
	)

	return &SubmitRatingResult{
		Rating:        dto.RatingFromDomain(stored),
		AverageRating: average,
	}, nil
}
