package support

import (
	"context"

	"staybook/internal/app/uow"
)

// UnitFromContext yields the transactional unit of work when a middleware
// has already opened one, or begins a short-lived one otherwise. The
// returned cleanup must be deferred; it is a no-op for inherited units.
func UnitFromContext(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions) (uow.UnitOfWork, func(), error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, func() {}, nil
	}
	if factory == nil {
		return nil, nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = unit.Rollback(ctx)
	}
	return unit, cleanup, nil
}

// BeginReadOnlyUnit is a convenience for query handlers that never write.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, func(), error) {
	return UnitFromContext(ctx, factory, uow.TxOptions{ReadOnly: true})
}
