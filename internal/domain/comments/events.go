package comments

import (
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/user"
)

type CommentAdded struct {
	CommentID CommentID
	ListingID listings.ListingID
	AuthorID  user.ID
	At        time.Time
}

func (e CommentAdded) EventName() string     { return "comment.added" }
func (e CommentAdded) AggregateID() string   { return string(e.CommentID) }
func (e CommentAdded) OccurredAt() time.Time { return e.At }
