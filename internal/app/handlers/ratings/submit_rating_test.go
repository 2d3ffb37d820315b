package ratings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/ratings"
	"staybook/internal/app/middleware"
	"staybook/internal/app/queries"
	domainlistings "staybook/internal/domain/listings"
	domainratings "staybook/internal/domain/ratings"
	"staybook/internal/infra/storage/memory"
)

func newBus(t *testing.T, store *memory.Store) commands.Bus {
	t.Helper()
	bus := commands.NewInMemoryBus()
	handler := ratings.NewSubmitRatingHandler(ratings.SubmitRatingHandlerParams{
		Outbox: memory.NewOutbox(nil),
		Now:    func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) },
	})
	commands.RegisterHandler(bus, ratings.SubmitRatingCommand{}.Key(), handler)
	return middleware.ChainCommands(bus, middleware.Transaction(memory.NewFactory(store), nil))
}

func seedListing(t *testing.T, store *memory.Store) {
	t.Helper()
	listing, err := domainlistings.New(domainlistings.CreateParams{
		ID:                "lst-1",
		Host:              "host-1",
		Title:             "City loft",
		NightlyPriceCents: 8000,
		GuestCount:        2,
	})
	if err != nil {
		t.Fatalf("listings.New: %v", err)
	}
	if err := memory.NewListingRepository(store).Save(context.Background(), listing); err != nil {
		t.Fatalf("save listing: %v", err)
	}
}

func submit(t *testing.T, bus commands.Bus, userID string, value int) (*ratings.SubmitRatingResult, error) {
	t.Helper()
	return commands.Dispatch[ratings.SubmitRatingCommand, *ratings.SubmitRatingResult](
		context.Background(), bus,
		ratings.SubmitRatingCommand{ListingID: "lst-1", UserID: userID, Value: value},
	)
}

func TestSubmitRatingOverwritesInPlace(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedListing(t, store)
	bus := newBus(t, store)

	first, err := submit(t, bus, "u1", 4)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := submit(t, bus, "u1", 2)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Rating.ID != first.Rating.ID {
		t.Errorf("resubmission changed identity: %s vs %s", second.Rating.ID, first.Rating.ID)
	}
	if second.Rating.Value != 2 {
		t.Errorf("value = %d, want 2", second.Rating.Value)
	}
	if second.AverageRating == nil || *second.AverageRating != 2.0 {
		t.Errorf("average = %v, want 2.0 after overwrite", second.AverageRating)
	}
}

func TestSubmitRatingAveragesAcrossUsers(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedListing(t, store)
	bus := newBus(t, store)

	if _, err := submit(t, bus, "u1", 3); err != nil {
		t.Fatalf("u1: %v", err)
	}
	result, err := submit(t, bus, "u2", 5)
	if err != nil {
		t.Fatalf("u2: %v", err)
	}
	if result.AverageRating == nil || *result.AverageRating != 4.0 {
		t.Errorf("average = %v, want 4.0", result.AverageRating)
	}
}

func TestSubmitRatingRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedListing(t, store)
	bus := newBus(t, store)

	for _, v := range []int{0, 6, -1} {
		if _, err := submit(t, bus, "u1", v); !errors.Is(err, domainratings.ErrValueOutOfRange) {
			t.Errorf("value %d: err = %v, want ErrValueOutOfRange", v, err)
		}
	}

	repo := memory.NewRatingRepository(store)
	if _, err := repo.ByUserListing(context.Background(), "u1", "lst-1"); !errors.Is(err, domainratings.ErrNotFound) {
		t.Errorf("rejected submissions must not persist: err = %v, want ErrNotFound", err)
	}
}

func TestSubmitRatingUnknownListing(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	bus := newBus(t, store)

	_, err := commands.Dispatch[ratings.SubmitRatingCommand, *ratings.SubmitRatingResult](
		context.Background(), bus,
		ratings.SubmitRatingCommand{ListingID: "missing", UserID: "u1", Value: 3},
	)
	if !errors.Is(err, domainlistings.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetListingRatingIncludesViewerRating(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedListing(t, store)
	bus := newBus(t, store)
	if _, err := submit(t, bus, "u1", 5); err != nil {
		t.Fatalf("submit: %v", err)
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, ratings.GetListingRatingQuery{}.Key(),
		ratings.NewGetListingRatingHandler(memory.NewFactory(store)))

	withViewer, err := queries.Ask[ratings.GetListingRatingQuery, *dto.ListingRating](
		context.Background(), queryBus,
		ratings.GetListingRatingQuery{ListingID: "lst-1", ViewerID: "u1"},
	)
	if err != nil {
		t.Fatalf("ask with viewer: %v", err)
	}
	if withViewer.MyRating == nil || *withViewer.MyRating != 5 {
		t.Errorf("MyRating = %v, want 5", withViewer.MyRating)
	}

	anonymous, err := queries.Ask[ratings.GetListingRatingQuery, *dto.ListingRating](
		context.Background(), queryBus,
		ratings.GetListingRatingQuery{ListingID: "lst-1", ViewerID: "stranger"},
	)
	if err != nil {
		t.Fatalf("ask without rating: %v", err)
	}
	if anonymous.MyRating != nil {
		t.Errorf("MyRating = %v, want nil for a viewer who has not rated", anonymous.MyRating)
	}
	if anonymous.AverageRating == nil || *anonymous.AverageRating != 5.0 {
		t.Errorf("average = %v, want 5.0", anonymous.AverageRating)
	}
}
