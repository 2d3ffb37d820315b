package memory

import (
	"context"

	"staybook/internal/app/uow"
	domaincomments "staybook/internal/domain/comments"
	domainlistings "staybook/internal/domain/listings"
	domainratings "staybook/internal/domain/ratings"
	domainreservation "staybook/internal/domain/reservation"
	domainuser "staybook/internal/domain/user"
)

// Factory hands out units of work over a shared Store. Repository
// operations apply immediately, so Commit and Rollback are no-ops; the
// atomic guarantees live in the repositories themselves.
type Factory struct {
	store *Store
}

func NewFactory(store *Store) *Factory {
	return &Factory{store: store}
}

func (f *Factory) Begin(_ context.Context, _ uow.TxOptions) (uow.UnitOfWork, error) {
	return &Unit{
		listings:     NewListingRepository(f.store),
		reservations: NewReservationRepository(f.store),
		ratings:      NewRatingRepository(f.store),
		comments:     NewCommentRepository(f.store),
		users:        NewUserRepository(f.store),
	}, nil
}

type Unit struct {
	listings     *ListingRepository
	reservations *ReservationRepository
	ratings      *RatingRepository
	comments     *CommentRepository
	users        *UserRepository
}

func (u *Unit) Listings() domainlistings.Repository        { return u.listings }
func (u *Unit) Reservations() domainreservation.Repository { return u.reservations }
func (u *Unit) Ratings() domainratings.Repository          { return u.ratings }
func (u *Unit) Comments() domaincomments.Repository        { return u.comments }
func (u *Unit) Users() domainuser.Repository               { return u.users }
func (u *Unit) Commit(_ context.Context) error             { return nil }
func (u *Unit) Rollback(_ context.Context) error           { return nil }
