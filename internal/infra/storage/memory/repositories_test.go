package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"staybook/internal/domain/comments"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/ratings"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/user"
)

func stay(t *testing.T, startDay, endDay int) daterange.Range {
	t.Helper()
	r, err := daterange.New(
		time.Date(2026, time.June, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.June, endDay, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("daterange.New: %v", err)
	}
	return r
}

func TestReservationCreateRejectsOverlap(t *testing.T) {
	t.Parallel()

	repo := NewReservationRepository(NewStore())
	ctx := context.Background()

	first := &reservation.Reservation{ID: "res-1", ListingID: "lst-1", GuestID: "g1", Stay: stay(t, 1, 5)}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	boundary := &reservation.Reservation{ID: "res-2", ListingID: "lst-1", GuestID: "g2", Stay: stay(t, 5, 7)}
	if err := repo.Create(ctx, boundary); !errors.Is(err, reservation.ErrDateConflict) {
		t.Errorf("boundary create: err = %v, want ErrDateConflict", err)
	}

	disjoint := &reservation.Reservation{ID: "res-3", ListingID: "lst-1", GuestID: "g2", Stay: stay(t, 6, 7)}
	if err := repo.Create(ctx, disjoint); err != nil {
		t.Errorf("disjoint create: err = %v, want nil", err)
	}

	otherListing := &reservation.Reservation{ID: "res-4", ListingID: "lst-2", GuestID: "g3", Stay: stay(t, 1, 5)}
	if err := repo.Create(ctx, otherListing); err != nil {
		t.Errorf("other listing create: err = %v, want nil", err)
	}
}

func TestReservationCreateConcurrentOneWinner(t *testing.T) {
	t.Parallel()

	repo := NewReservationRepository(NewStore())
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row := &reservation.Reservation{
				ID:        reservation.ReservationID(fmt.Sprintf("res-%d", i)),
				ListingID: "lst-1",
				GuestID:   "guest",
				Stay:      stay(t, 10, 14),
			}
			errs[i] = repo.Create(ctx, row)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, reservation.ErrDateConflict):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestRatingUpsertKeepsOneRowPerPair(t *testing.T) {
	t.Parallel()

	repo := NewRatingRepository(NewStore())
	ctx := context.Background()
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	first, err := repo.Upsert(ctx, &ratings.Rating{
		ID: "rat-1", ListingID: "lst-1", UserID: "u1", Value: 4,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	later := now.Add(time.Hour)
	second, err := repo.Upsert(ctx, &ratings.Rating{
		ID: "rat-2", ListingID: "lst-1", UserID: "u1", Value: 2,
		CreatedAt: later, UpdatedAt: later,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second upsert ID = %s, want original %s", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on upsert: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if second.Value != 2 {
		t.Errorf("Value = %d, want 2", second.Value)
	}

	stored, err := repo.ByUserListing(ctx, "u1", "lst-1")
	if err != nil {
		t.Fatalf("ByUserListing: %v", err)
	}
	if stored.Value != 2 {
		t.Errorf("stored value = %d, want 2", stored.Value)
	}
}

func TestAverageForListing(t *testing.T) {
	t.Parallel()

	repo := NewRatingRepository(NewStore())
	ctx := context.Background()
	now := time.Now().UTC()

	avg, err := repo.AverageForListing(ctx, "lst-1")
	if err != nil {
		t.Fatalf("AverageForListing: %v", err)
	}
	if avg != nil {
		t.Errorf("unrated listing average = %v, want nil", *avg)
	}

	values := map[string]int{"u1": 3, "u2": 5}
	for uid, v := range values {
		if _, err := repo.Upsert(ctx, &ratings.Rating{
			ID: ratings.RatingID("rat-" + uid), ListingID: "lst-1",
			UserID: user.ID(uid), Value: v, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("upsert %s: %v", uid, err)
		}
	}

	avg, err = repo.AverageForListing(ctx, "lst-1")
	if err != nil {
		t.Fatalf("AverageForListing: %v", err)
	}
	if avg == nil || *avg != 4.0 {
		t.Errorf("average = %v, want 4.0", avg)
	}
}

func TestAverageIsFractional(t *testing.T) {
	t.Parallel()

	repo := NewRatingRepository(NewStore())
	ctx := context.Background()
	now := time.Now().UTC()

	for i, v := range []int{1, 2, 3, 4} {
		uid := fmt.Sprintf("u%d", i)
		if _, err := repo.Upsert(ctx, &ratings.Rating{
			ID: ratings.RatingID("rat-" + uid), ListingID: "lst-1",
			UserID: user.ID(uid), Value: v, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	avg, err := repo.AverageForListing(ctx, "lst-1")
	if err != nil {
		t.Fatalf("AverageForListing: %v", err)
	}
	if avg == nil || *avg != 2.5 {
		t.Errorf("average = %v, want 2.5", avg)
	}
}

func TestCommentsKeepCreationOrder(t *testing.T) {
	t.Parallel()

	repo := NewCommentRepository(NewStore())
	ctx := context.Background()

	bodies := []string{"first", "second", "third"}
	for i, body := range bodies {
		c := &comments.Comment{
			ID:        comments.CommentID(fmt.Sprintf("cmt-%d", i)),
			ListingID: "lst-1",
			AuthorID:  "u1",
			Body:      body,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.Append(ctx, c); err != nil {
			t.Fatalf("append %q: %v", body, err)
		}
	}

	rows, err := repo.ListByListing(ctx, "lst-1")
	if err != nil {
		t.Fatalf("ListByListing: %v", err)
	}
	if len(rows) != len(bodies) {
		t.Fatalf("got %d comments, want %d", len(rows), len(bodies))
	}
	for i, row := range rows {
		if row.Body != bodies[i] {
			t.Errorf("comment[%d] = %q, want %q", i, row.Body, bodies[i])
		}
	}
}

func TestListingByIDNotFound(t *testing.T) {
	t.Parallel()

	repo := NewListingRepository(NewStore())
	if _, err := repo.ByID(context.Background(), "missing"); !errors.Is(err, listings.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
