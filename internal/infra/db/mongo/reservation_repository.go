package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/user"
)

type ReservationRepository struct {
	col  *mongo.Collection
	days *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{
		col:  db.Collection("reservations"),
		days: db.Collection("reservation_days"),
	}
}

// EnsureIndexes creates the unique (listing_id, day) index that backs
// reservation admission.
func (r *ReservationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.days.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "listing_id", Value: 1},
			{Key: "day", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("uniq_listing_day"),
	})
	return err
}

func (r *ReservationRepository) ByID(ctx context.Context, id reservation.ReservationID) (*reservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReservationRepository) ListByListing(ctx context.Context, listingID listings.ListingID) ([]*reservation.Reservation, error) {
	return r.list(ctx, bson.M{"listing_id": string(listingID)})
}

func (r *ReservationRepository) ListByGuest(ctx context.Context, guestID user.ID) ([]*reservation.Reservation, error) {
	return r.list(ctx, bson.M{"guest_id": string(guestID)})
}

func (r *ReservationRepository) list(ctx context.Context, filter bson.M) ([]*reservation.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_day", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*reservation.Reservation, 0)
	for cursor.Next(ctx) {
		var doc reservationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

// Create claims every day of the stay in reservation_days before
// inserting the row, all inside the caller's session transaction.
// Transaction snapshots cannot see a concurrent uncommitted booking, so
// a read-based overlap check would let two racing stays both pass. The
// per-day claim documents collide on the unique (listing_id, day) index
// instead: two overlapping stays share at least one day, the second
// writer aborts, and the loser surfaces as ErrDateConflict.
func (r *ReservationRepository) Create(ctx context.Context, row *reservation.Reservation) error {
	if _, err := r.days.InsertMany(ctx, dayClaimDocuments(row)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservation.ErrDateConflict
		}
		return err
	}
	if _, err := r.col.InsertOne(ctx, newReservationDocument(row)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservation.ErrDateConflict
		}
		return err
	}
	return nil
}

type dayClaimDocument struct {
	ID            string `bson:"_id"`
	ListingID     string `bson:"listing_id"`
	Day           int64  `bson:"day"`
	ReservationID string `bson:"reservation_id"`
}

// dayClaimDocuments expands an inclusive stay into one claim per
// blocked day. Overlapping stays on the same listing always produce at
// least one identical claim key.
func dayClaimDocuments(row *reservation.Reservation) []any {
	out := make([]any, 0, row.Stay.Days())
	for d := range row.Stay.EachDay() {
		day := d.UnixMilli()
		out = append(out, dayClaimDocument{
			ID:            fmt.Sprintf("%s:%d", row.ListingID, day),
			ListingID:     string(row.ListingID),
			Day:           day,
			ReservationID: string(row.ID),
		})
	}
	return out
}

type reservationDocument struct {
	ID              string `bson:"_id"`
	ListingID       string `bson:"listing_id"`
	GuestID         string `bson:"guest_id"`
	StartDay        int64  `bson:"start_day"`
	EndDay          int64  `bson:"end_day"`
	TotalPriceCents int64  `bson:"total_price_cents"`
	CreatedAt       int64  `bson:"created_at"`
}

func newReservationDocument(r *reservation.Reservation) reservationDocument {
	return reservationDocument{
		ID:              string(r.ID),
		ListingID:       string(r.ListingID),
		GuestID:         string(r.GuestID),
		StartDay:        r.Stay.Start.UnixMilli(),
		EndDay:          r.Stay.End.UnixMilli(),
		TotalPriceCents: r.TotalPriceCents,
		CreatedAt:       r.CreatedAt.UnixMilli(),
	}
}

func (d reservationDocument) toAggregate() *reservation.Reservation {
	return &reservation.Reservation{
		ID:              reservation.ReservationID(d.ID),
		ListingID:       listings.ListingID(d.ListingID),
		GuestID:         user.ID(d.GuestID),
		Stay:            daterange.Range{Start: timestampToTime(d.StartDay), End: timestampToTime(d.EndDay)},
		TotalPriceCents: d.TotalPriceCents,
		CreatedAt:       timestampToTime(d.CreatedAt),
	}
}
