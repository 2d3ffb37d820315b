package memory

import (
	"context"
	"sort"
	"sync"

	"staybook/internal/domain/availability"
	"staybook/internal/domain/comments"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/ratings"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/user"
)

// Store keeps every collection behind one mutex so cross-collection
// operations (overlap check plus insert) happen in a single critical
// section.
type Store struct {
	mu           sync.RWMutex
	listings     map[listings.ListingID]listings.Listing
	reservations map[reservation.ReservationID]reservation.Reservation
	ratings      map[ratingKey]ratings.Rating
	comments     []comments.Comment
	users        map[user.ID]user.User
	emails       map[string]user.ID
}

type ratingKey struct {
	UserID    user.ID
	ListingID listings.ListingID
}

func NewStore() *Store {
	return &Store{
		listings:     make(map[listings.ListingID]listings.Listing),
		reservations: make(map[reservation.ReservationID]reservation.Reservation),
		ratings:      make(map[ratingKey]ratings.Rating),
		users:        make(map[user.ID]user.User),
		emails:       make(map[string]user.ID),
	}
}

type ListingRepository struct{ store *Store }

func NewListingRepository(store *Store) *ListingRepository {
	return &ListingRepository{store: store}
}

func (r *ListingRepository) ByID(_ context.Context, id listings.ListingID) (*listings.Listing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	row, ok := r.store.listings[id]
	if !ok {
		return nil, listings.ErrNotFound
	}
	copied := row
	return &copied, nil
}

func (r *ListingRepository) Save(_ context.Context, listing *listings.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.listings[listing.ID] = *listing
	return nil
}

type ReservationRepository struct{ store *Store }

func NewReservationRepository(store *Store) *ReservationRepository {
	return &ReservationRepository{store: store}
}

func (r *ReservationRepository) ByID(_ context.Context, id reservation.ReservationID) (*reservation.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	row, ok := r.store.reservations[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	copied := row
	return &copied, nil
}

func (r *ReservationRepository) ListByListing(_ context.Context, listingID listings.ListingID) ([]*reservation.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.listByListingLocked(listingID), nil
}

func (r *ReservationRepository) ListByGuest(_ context.Context, guestID user.ID) ([]*reservation.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*reservation.Reservation, 0)
	for _, row := range r.store.reservations {
		if row.GuestID == guestID {
			copied := row
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stay.Start.Before(out[j].Stay.Start)
	})
	return out, nil
}

// Create re-checks the stay against the listing's reservations and
// inserts under one write lock, so two racing requests for contested
// dates cannot both land.
func (r *ReservationRepository) Create(_ context.Context, row *reservation.Reservation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing := r.store.listByListingLocked(row.ListingID)
	schedule := availability.BuildSchedule(row.ListingID, existing)
	if !schedule.CanReserve(row.Stay) {
		return reservation.ErrDateConflict
	}
	r.store.reservations[row.ID] = *row
	return nil
}

func (s *Store) listByListingLocked(listingID listings.ListingID) []*reservation.Reservation {
	out := make([]*reservation.Reservation, 0)
	for _, row := range s.reservations {
		if row.ListingID == listingID {
			copied := row
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stay.Start.Before(out[j].Stay.Start)
	})
	return out
}

type RatingRepository struct{ store *Store }

func NewRatingRepository(store *Store) *RatingRepository {
	return &RatingRepository{store: store}
}

// Upsert is keyed by (user, listing) under the write lock: an existing
// row keeps its identity and creation time, only value and update time
// change.
func (r *RatingRepository) Upsert(_ context.Context, row *ratings.Rating) (*ratings.Rating, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := ratingKey{UserID: row.UserID, ListingID: row.ListingID}
	stored, ok := r.store.ratings[key]
	if ok {
		stored.Value = row.Value
		stored.UpdatedAt = row.UpdatedAt
	} else {
		stored = *row
	}
	r.store.ratings[key] = stored
	copied := stored
	return &copied, nil
}

func (r *RatingRepository) ByUserListing(_ context.Context, userID user.ID, listingID listings.ListingID) (*ratings.Rating, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	row, ok := r.store.ratings[ratingKey{UserID: userID, ListingID: listingID}]
	if !ok {
		return nil, ratings.ErrNotFound
	}
	copied := row
	return &copied, nil
}

func (r *RatingRepository) AverageForListing(_ context.Context, listingID listings.ListingID) (*float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var sum, count int
	for key, row := range r.store.ratings {
		if key.ListingID == listingID {
			sum += row.Value
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(count)
	return &avg, nil
}

type CommentRepository struct{ store *Store }

func NewCommentRepository(store *Store) *CommentRepository {
	return &CommentRepository{store: store}
}

func (r *CommentRepository) Append(_ context.Context, c *comments.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.comments = append(r.store.comments, *c)
	return nil
}

func (r *CommentRepository) ListByListing(_ context.Context, listingID listings.ListingID) ([]*comments.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*comments.Comment, 0)
	for i := range r.store.comments {
		if r.store.comments[i].ListingID == listingID {
			copied := r.store.comments[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}
