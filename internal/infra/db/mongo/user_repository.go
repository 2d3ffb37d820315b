package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/domain/auth"
	"staybook/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}

func (r *UserRepository) ByID(ctx context.Context, id user.ID) (*user.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*user.User, error) {
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	doc := newUserDocument(u)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	if mongo.IsDuplicateKeyError(err) {
		return user.ErrEmailAlreadyUsed
	}
	return err
}

type userDocument struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	Name         string `bson:"name"`
	AvatarURL    string `bson:"avatar_url"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func newUserDocument(u *user.User) userDocument {
	return userDocument{
		ID:           string(u.ID),
		Email:        u.Email,
		Name:         u.Name,
		AvatarURL:    u.AvatarURL,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UnixMilli(),
		UpdatedAt:    u.UpdatedAt.UnixMilli(),
	}
}

func (d userDocument) toAggregate() *user.User {
	return &user.User{
		ID:           user.ID(d.ID),
		Email:        d.Email,
		Name:         d.Name,
		AvatarURL:    d.AvatarURL,
		PasswordHash: d.PasswordHash,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}

// SessionStore persists bearer sessions in the sessions collection with
// a TTL index on expiry.
type SessionStore struct {
	col *mongo.Collection
}

func NewSessionStore(db *mongo.Database) *SessionStore {
	return &SessionStore{col: db.Collection("sessions")}
}

func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at_ts", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires"),
	})
	return err
}

func (s *SessionStore) Save(ctx context.Context, session *auth.Session) error {
	doc := sessionDocument{
		Token:       string(session.Token),
		UserID:      string(session.UserID),
		CreatedAt:   session.CreatedAt.UnixMilli(),
		ExpiresAt:   session.ExpiresAt.UnixMilli(),
		ExpiresAtTS: session.ExpiresAt,
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": doc.Token}, bson.M{"$set": doc}, opts)
	return err
}

func (s *SessionStore) Get(ctx context.Context, token auth.Token) (*auth.Session, error) {
	var doc sessionDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": string(token)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, err
	}
	return &auth.Session{
		Token:     auth.Token(doc.Token),
		UserID:    user.ID(doc.UserID),
		CreatedAt: timestampToTime(doc.CreatedAt),
		ExpiresAt: timestampToTime(doc.ExpiresAt),
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, token auth.Token) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": string(token)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID user.ID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": string(userID)})
	return err
}

type sessionDocument struct {
	Token       string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	CreatedAt   int64     `bson:"created_at"`
	ExpiresAt   int64     `bson:"expires_at"`
	ExpiresAtTS time.Time `bson:"expires_at_ts"`
}
