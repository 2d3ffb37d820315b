package dto

import (
	"time"

	"staybook/internal/domain/comments"
)

type Comment struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Body      string    `json:"body"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func CommentFromDomain(c *comments.Comment, author Author) Comment {
	return Comment{
		ID:        string(c.ID),
		ListingID: string(c.ListingID),
		Body:      c.Body,
		Author:    author,
		CreatedAt: c.CreatedAt,
	}
}
