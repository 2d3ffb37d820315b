package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/app/uow"
	domaincomments "staybook/internal/domain/comments"
	domainlistings "staybook/internal/domain/listings"
	domainratings "staybook/internal/domain/ratings"
	domainreservation "staybook/internal/domain/reservation"
	domainuser "staybook/internal/domain/user"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	ListingsRepo     domainlistings.Repository
	ReservationsRepo domainreservation.Repository
	RatingsRepo      domainratings.Repository
	CommentsRepo     domaincomments.Repository
	UsersRepo        domainuser.Repository
}

// Begin starts a MongoDB session. Writable units also start a
// transaction; read-only units skip it, queries do not need one and a
// transaction begun here would only be aborted unused.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	if !opts.ReadOnly {
		txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
		if err := session.StartTransaction(txnOpts); err != nil {
			session.EndSession(ctx)
			return nil, err
		}
	}
	return &Unit{
		db:           f.DB,
		session:      session,
		readOnly:     opts.ReadOnly,
		listings:     f.ListingsRepo,
		reservations: f.ReservationsRepo,
		ratings:      f.RatingsRepo,
		comments:     f.CommentsRepo,
		users:        f.UsersRepo,
	}, nil
}

type Unit struct {
	db       *mongo.Database
	session  mongo.Session
	readOnly bool

	listings     domainlistings.Repository
	reservations domainreservation.Repository
	ratings      domainratings.Repository
	comments     domaincomments.Repository
	users        domainuser.Repository
}

func (u *Unit) Listings() domainlistings.Repository {
	return u.listings
}

func (u *Unit) Reservations() domainreservation.Repository {
	return u.reservations
}

func (u *Unit) Ratings() domainratings.Repository {
	return u.ratings
}

func (u *Unit) Comments() domaincomments.Repository {
	return u.comments
}

func (u *Unit) Users() domainuser.Repository {
	return u.users
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	if u.readOnly {
		return nil
	}
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	if u.readOnly {
		return nil
	}
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
