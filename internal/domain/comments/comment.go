package comments

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/user"
)

var (
	ErrEmptyBody      = errors.New("comments: body is empty")
	ErrAuthorRequired = errors.New("comments: author id is required")
)

type CommentID string

// Comment is an append-only guest remark on a listing. Created once,
// never edited or deleted by this service.
type Comment struct {
	ID        CommentID
	ListingID listings.ListingID
	AuthorID  user.ID
	Body      string
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	Append(ctx context.Context, c *Comment) error
	// ListByListing returns comments in stored creation order, oldest
	// first.
	ListByListing(ctx context.Context, listingID listings.ListingID) ([]*Comment, error)
}

type CreateParams struct {
	ID        CommentID
	ListingID listings.ListingID
	AuthorID  user.ID
	Body      string
	CreatedAt time.Time
}

func New(params CreateParams) (*Comment, error) {
	body := strings.TrimSpace(params.Body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if strings.TrimSpace(string(params.AuthorID)) == "" {
		return nil, ErrAuthorRequired
	}
	now := params.CreatedAt.UTC()
	c := &Comment{
		ID:        params.ID,
		ListingID: params.ListingID,
		AuthorID:  params.AuthorID,
		Body:      body,
		CreatedAt: now,
	}
	c.Record(CommentAdded{
		CommentID: c.ID,
		ListingID: c.ListingID,
		AuthorID:  c.AuthorID,
		At:        now,
	})
	return c, nil
}
