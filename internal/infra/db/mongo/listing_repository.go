package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/domain/listings"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) ByID(ctx context.Context, id listings.ListingID) (*listings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, listings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *listings.Listing) error {
	doc := newListingDocument(listing)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

type listingDocument struct {
	ID                string `bson:"_id"`
	HostID            string `bson:"host_id"`
	Title             string `bson:"title"`
	Description       string `bson:"description"`
	NightlyPriceCents int64  `bson:"nightly_price_cents"`
	GuestCount        int    `bson:"guest_count"`
	RoomCount         int    `bson:"room_count"`
	BathroomCount     int    `bson:"bathroom_count"`
	CreatedAt         int64  `bson:"created_at"`
	UpdatedAt         int64  `bson:"updated_at"`
}

func newListingDocument(l *listings.Listing) listingDocument {
	return listingDocument{
		ID:                string(l.ID),
		HostID:            string(l.Host),
		Title:             l.Title,
		Description:       l.Description,
		NightlyPriceCents: l.NightlyPriceCents,
		GuestCount:        l.GuestCount,
		RoomCount:         l.RoomCount,
		BathroomCount:     l.BathroomCount,
		CreatedAt:         l.CreatedAt.UnixMilli(),
		UpdatedAt:         l.UpdatedAt.UnixMilli(),
	}
}

func (d listingDocument) toAggregate() *listings.Listing {
	return &listings.Listing{
		ID:                listings.ListingID(d.ID),
		Host:              listings.HostID(d.HostID),
		Title:             d.Title,
		Description:       d.Description,
		NightlyPriceCents: d.NightlyPriceCents,
		GuestCount:        d.GuestCount,
		RoomCount:         d.RoomCount,
		BathroomCount:     d.BathroomCount,
		CreatedAt:         timestampToTime(d.CreatedAt),
		UpdatedAt:         timestampToTime(d.UpdatedAt),
	}
}
