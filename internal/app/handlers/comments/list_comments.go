package comments

import (
	"context"
	"errors"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/uow"
	"staybook/internal/domain/comments"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/user"
)

const ListCommentsKey = "comment.list"

type ListCommentsQuery struct {
	ListingID string
}

func (q ListCommentsQuery) Key() string { return ListCommentsKey }

type ListCommentsHandler struct {
	factory uow.UoWFactory
}

func NewListCommentsHandler(factory uow.UoWFactory) *ListCommentsHandler {
	return &ListCommentsHandler{factory: factory}
}

// Handle returns the thread oldest first with author snapshots resolved.
// Authors repeat across a thread, so lookups are cached per request.
func (h *ListCommentsHandler) Handle(ctx context.Context, query ListCommentsQuery) ([]dto.Comment, error) {
	unit, cleanup, err := support.BeginReadOnlyUnit(ctx, h.factory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	listingID := listings.ListingID(query.ListingID)
	if _, err := unit.Listings().ByID(ctx, listingID); err != nil {
		return nil, err
	}

	rows, err := unit.Comments().ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return ResolveAuthors(ctx, unit.Users(), rows)
}

// ResolveAuthors maps comment rows to DTOs with their author snapshots.
// A deleted author degrades to an empty snapshot instead of failing the
// whole thread.
func ResolveAuthors(ctx context.Context, users user.Repository, rows []*comments.Comment) ([]dto.Comment, error) {
	out := make([]dto.Comment, 0, len(rows))
	cache := make(map[user.ID]dto.Author)
	for _, row := range rows {
		author, ok := cache[row.AuthorID]
		if !ok {
			account, err := users.ByID(ctx, row.AuthorID)
			switch {
			case err == nil:
				author = dto.AuthorFromDomain(account)
			case errors.Is(err, user.ErrNotFound):
				author = dto.Author{ID: string(row.AuthorID)}
			default:
				return nil, err
			}
			cache[row.AuthorID] = author
		}
		out = append(out, dto.CommentFromDomain(row, author))
	}
	return out, nil
}
