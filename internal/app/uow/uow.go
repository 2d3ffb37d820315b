package uow

import (
	"context"

	domaincomments "staybook/internal/domain/comments"
	domainlistings "staybook/internal/domain/listings"
	domainratings "staybook/internal/domain/ratings"
	domainreservation "staybook/internal/domain/reservation"
	domainuser "staybook/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Listings() domainlistings.Repository
	Reservations() domainreservation.Repository
	Ratings() domainratings.Repository
	Comments() domaincomments.Repository
	Users() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
