package comments_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	commentapp "staybook/internal/app/handlers/comments"
	"staybook/internal/app/middleware"
	"staybook/internal/app/queries"
	domaincomments "staybook/internal/domain/comments"
	domainlistings "staybook/internal/domain/listings"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/storage/memory"
)

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()

	listing, err := domainlistings.New(domainlistings.CreateParams{
		ID:                "lst-1",
		Host:              "host-1",
		Title:             "Forest cabin",
		NightlyPriceCents: 7000,
		GuestCount:        4,
	})
	if err != nil {
		t.Fatalf("listings.New: %v", err)
	}
	if err := memory.NewListingRepository(store).Save(ctx, listing); err != nil {
		t.Fatalf("save listing: %v", err)
	}

	author, err := domainuser.New(domainuser.CreateParams{
		ID:           "u1",
		Email:        "ada@example.com",
		Name:         "Ada",
		AvatarURL:    "https://cdn.example.com/u1.png",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("user.New: %v", err)
	}
	if err := memory.NewUserRepository(store).Save(ctx, author); err != nil {
		t.Fatalf("save user: %v", err)
	}
}

func newBus(t *testing.T, store *memory.Store) commands.Bus {
	t.Helper()
	bus := commands.NewInMemoryBus()
	handler := commentapp.NewAddCommentHandler(commentapp.AddCommentHandlerParams{
		Outbox: memory.NewOutbox(nil),
		Now:    func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) },
	})
	commands.RegisterHandler(bus, commentapp.AddCommentCommand{}.Key(), handler)
	return middleware.ChainCommands(bus, middleware.Transaction(memory.NewFactory(store), nil))
}

func TestAddCommentResolvesAuthor(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seed(t, store)
	bus := newBus(t, store)

	result, err := commands.Dispatch[commentapp.AddCommentCommand, *commentapp.AddCommentResult](
		context.Background(), bus,
		commentapp.AddCommentCommand{ListingID: "lst-1", AuthorID: "u1", Body: "  lovely stay  "},
	)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if result.Comment.Body != "lovely stay" {
		t.Errorf("body = %q, want trimmed %q", result.Comment.Body, "lovely stay")
	}
	if result.Comment.Author.Name != "Ada" || result.Comment.Author.AvatarURL == "" {
		t.Errorf("author snapshot = %+v, want name and avatar", result.Comment.Author)
	}
}

func TestAddCommentRejectsBlankBody(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seed(t, store)
	bus := newBus(t, store)

	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := commands.Dispatch[commentapp.AddCommentCommand, *commentapp.AddCommentResult](
			context.Background(), bus,
			commentapp.AddCommentCommand{ListingID: "lst-1", AuthorID: "u1", Body: body},
		)
		if !errors.Is(err, domaincomments.ErrEmptyBody) {
			t.Errorf("body %q: err = %v, want ErrEmptyBody", body, err)
		}
	}

	rows, err := memory.NewCommentRepository(store).ListByListing(context.Background(), "lst-1")
	if err != nil {
		t.Fatalf("ListByListing: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("blank submissions persisted %d rows, want 0", len(rows))
	}
}

func TestListCommentsReturnsThreadInOrder(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seed(t, store)
	bus := newBus(t, store)

	for i := 0; i < 3; i++ {
		if _, err := commands.Dispatch[commentapp.AddCommentCommand, *commentapp.AddCommentResult](
			context.Background(), bus,
			commentapp.AddCommentCommand{ListingID: "lst-1", AuthorID: "u1", Body: fmt.Sprintf("comment %d", i)},
		); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, commentapp.ListCommentsQuery{}.Key(),
		commentapp.NewListCommentsHandler(memory.NewFactory(store)))

	thread, err := queries.Ask[commentapp.ListCommentsQuery, []dto.Comment](
		context.Background(), queryBus,
		commentapp.ListCommentsQuery{ListingID: "lst-1"},
	)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(thread) != 3 {
		t.Fatalf("thread length = %d, want 3", len(thread))
	}
	for i, c := range thread {
		want := fmt.Sprintf("comment %d", i)
		if c.Body != want {
			t.Errorf("thread[%d] = %q, want %q", i, c.Body, want)
		}
		if c.Author.ID != "u1" {
			t.Errorf("thread[%d] author = %s, want u1", i, c.Author.ID)
		}
	}
}

func TestListCommentsToleratesDeletedAuthor(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seed(t, store)
	ctx := context.Background()

	orphan := &domaincomments.Comment{
		ID:        "cmt-orphan",
		ListingID: "lst-1",
		AuthorID:  "ghost",
		Body:      "anyone here?",
		CreatedAt: time.Now().UTC(),
	}
	if err := memory.NewCommentRepository(store).Append(ctx, orphan); err != nil {
		t.Fatalf("append: %v", err)
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, commentapp.ListCommentsQuery{}.Key(),
		commentapp.NewListCommentsHandler(memory.NewFactory(store)))

	thread, err := queries.Ask[commentapp.ListCommentsQuery, []dto.Comment](
		ctx, queryBus, commentapp.ListCommentsQuery{ListingID: "lst-1"},
	)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(thread) != 1 {
		t.Fatalf("thread length = %d, want 1", len(thread))
	}
	if thread[0].Author.ID != "ghost" || thread[0].Author.Name != "" {
		t.Errorf("orphan author = %+v, want bare ID snapshot", thread[0].Author)
	}
}
