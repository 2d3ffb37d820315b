package outbox

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "staybook/internal/app/outbox"
)

const (
	statusPending = "pending"
	statusSending = "sending"
	statusSent    = "sent"
)

// claimLease bounds how long a claimed row may sit in sending. A worker
// that dies between Claim and MarkSent loses its claim after the lease,
// so the row is redelivered instead of stranded.
const claimLease = 30 * time.Second

// Store persists event records in the app_outbox collection. Add runs
// inside the caller's Mongo session, so an event row commits or aborts
// together with the aggregate write. Flush is a no-op: delivery belongs
// to the polling worker.
type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection("app_outbox")}
}

type EventDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Payload    []byte            `bson:"payload"`
	Aggregate  string            `bson:"aggregate"`
	Headers    map[string]string `bson:"headers"`
	OccurredAt time.Time         `bson:"occurred_at"`
	Status     string            `bson:"status"`
	Attempts   int               `bson:"attempts"`
	NextRetry  time.Time         `bson:"next_retry"`
	ClaimedBy  string            `bson:"claimed_by,omitempty"`
	ClaimedAt  time.Time         `bson:"claimed_at,omitempty"`
	LastError  string            `bson:"last_error,omitempty"`
}

func (s *Store) Add(ctx context.Context, record appoutbox.EventRecord) error {
	doc := EventDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		Aggregate:  record.Aggregate,
		Headers:    record.Headers,
		OccurredAt: record.OccurredAt,
		Status:     statusPending,
		NextRetry:  time.Now().UTC(),
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

func (s *Store) Flush(_ context.Context) error {
	return nil
}

// Claim atomically marks one due row as sending and returns it. Due
// means pending past its retry time, or sending with an expired lease.
// Nil with nil error means nothing is due.
func (s *Store) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	now := time.Now().UTC()
	filter := bson.M{"$or": bson.A{
		bson.M{"status": statusPending, "next_retry": bson.M{"$lte": now}},
		bson.M{"status": statusSending, "claimed_at": bson.M{"$lte": now.Add(-claimLease)}},
	}}
	update := bson.M{"$set": bson.M{
		"status":     statusSending,
		"claimed_by": workerID,
		"claimed_at": now,
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "occurred_at", Value: 1}}).
		SetReturnDocument(options.After)
	var doc EventDocument
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": statusSent}})
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id string, nextRetry time.Time, reason string) error {
	update := bson.M{
		"$set": bson.M{
			"status":     statusPending,
			"next_retry": nextRetry.UTC(),
			"last_error": reason,
		},
		"$inc": bson.M{"attempts": 1},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
