package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/ratings"
	"staybook/internal/domain/user"
)

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{col: db.Collection("ratings")}
}

// EnsureIndexes creates the unique (user_id, listing_id) index that
// backs the one-row-per-pair guarantee.
func (r *RatingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user_listing"),
	})
	return err
}

// Upsert is one UpdateOne with upsert against the unique pair index:
// $setOnInsert seeds identity and creation time for a fresh row, $set
// overwrites the value for an existing one. No client-side read first.
func (r *RatingRepository) Upsert(ctx context.Context, row *ratings.Rating) (*ratings.Rating, error) {
	filter := bson.M{"user_id": string(row.UserID), "listing_id": string(row.ListingID)}
	update := bson.M{
		"$set": bson.M{
			"value":      row.Value,
			"updated_at": row.UpdatedAt.UnixMilli(),
		},
		"$setOnInsert": bson.M{
			"_id":        string(row.ID),
			"user_id":    string(row.UserID),
			"listing_id": string(row.ListingID),
			"created_at": row.CreatedAt.UnixMilli(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, filter, update, opts); err != nil {
		return nil, err
	}
	return r.ByUserListing(ctx, row.UserID, row.ListingID)
}

func (r *RatingRepository) ByUserListing(ctx context.Context, userID user.ID, listingID listings.ListingID) (*ratings.Rating, error) {
	filter := bson.M{"user_id": string(userID), "listing_id": string(listingID)}
	var doc ratingDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ratings.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// AverageForListing aggregates the live mean server side. No rows means
// nil, never zero.
func (r *RatingRepository) AverageForListing(ctx context.Context, listingID listings.ListingID) (*float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"listing_id": string(listingID)}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "average": bson.M{"$avg": "$value"}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	if !cursor.Next(ctx) {
		return nil, cursor.Err()
	}
	var row struct {
		Average float64 `bson:"average"`
	}
	if err := cursor.Decode(&row); err != nil {
		return nil, err
	}
	return &row.Average, nil
}

type ratingDocument struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	ListingID string `bson:"listing_id"`
	Value     int    `bson:"value"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (d ratingDocument) toAggregate() *ratings.Rating {
	return &ratings.Rating{
		ID:        ratings.RatingID(d.ID),
		UserID:    user.ID(d.UserID),
		ListingID: listings.ListingID(d.ListingID),
		Value:     d.Value,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}
