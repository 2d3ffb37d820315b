package comments

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/dto"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	"staybook/internal/domain/comments"
	"staybook/internal/domain/listings"
	"staybook/internal/domain/user"
)

const AddCommentKey = "comment.add"

type AddCommentCommand struct {
	ListingID string
	AuthorID  string
	Body      string
}

func (c AddCommentCommand) Key() string { return AddCommentKey }

type AddCommentResult struct {
	Comment dto.Comment `json:"comment"`
}

type AddCommentHandler struct {
	encoder outbox.EventEncoder
	box     outbox.Outbox
	logger  *slog.Logger
	now     func() time.Time
}

type AddCommentHandlerParams struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func NewAddCommentHandler(params AddCommentHandlerParams) *AddCommentHandler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := params.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &AddCommentHandler{
		encoder: params.Encoder,
		box:     params.Outbox,
		logger:  logger,
		now:     nowFn,
	}
}

// Handle validates the body before touching the store, so a blank
// submission never produces a row.
func (h *AddCommentHandler) Handle(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	listingID := listings.ListingID(cmd.ListingID)
	if _, err := unit.Listings().ByID(ctx, listingID); err != nil {
		return nil, err
	}

	comment, err := comments.New(comments.CreateParams{
		ID:        comments.CommentID(uuid.NewString()),
		ListingID: listingID,
		AuthorID:  user.ID(cmd.AuthorID),
		Body:      cmd.Body,
		CreatedAt: h.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Comments().Append(ctx, comment); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.box, h.encoder, comment.PendingEvents()); err != nil {
		return nil, err
	}
	comment.ClearEvents()

	author, err := unit.Users().ByID(ctx, comment.AuthorID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("comment added",
		"comment_id", comment.ID,
		"listing_id", comment.ListingID,
		"author_id", comment.AuthorID,
	)

	return &AddCommentResult{
		Comment: dto.CommentFromDomain(comment, dto.AuthorFromDomain(author)),
	}, nil
}
