package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/domain/comments"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/user"
)

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection("comments")}
}

func (r *CommentRepository) Append(ctx context.Context, c *comments.Comment) error {
	_, err := r.col.InsertOne(ctx, newCommentDocument(c))
	return err
}

func (r *CommentRepository) ListByListing(ctx context.Context, listingID listings.ListingID) ([]*comments.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"listing_id": string(listingID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*comments.Comment, 0)
	for cursor.Next(ctx) {
		var doc commentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type commentDocument struct {
	ID        string `bson:"_id"`
	ListingID string `bson:"listing_id"`
	AuthorID  string `bson:"author_id"`
	Body      string `bson:"body"`
	CreatedAt int64  `bson:"created_at"`
}

func newCommentDocument(c *comments.Comment) commentDocument {
	return commentDocument{
		ID:        string(c.ID),
		ListingID: string(c.ListingID),
		AuthorID:  string(c.AuthorID),
		Body:      c.Body,
		CreatedAt: c.CreatedAt.UnixMilli(),
	}
}

func (d commentDocument) toAggregate() *comments.Comment {
	return &comments.Comment{
		ID:        comments.CommentID(d.ID),
		ListingID: listings.ListingID(d.ListingID),
		AuthorID:  user.ID(d.AuthorID),
		Body:      d.Body,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
