package memory

import (
	"context"

	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/persistence"
)

// UnitOfWork satisfies the unit of work contract entirely in memory. Begin
// holds no real transactional resource and Release has nothing to discard:
// the repository mutates shared state directly. The Committed flag is
// observable so orchestration tests can assert that a use case committed.
//
// It is a stand-in for behavioral tests only; transactional-correctness
// tests must run against the real database-backed implementation.
type UnitOfWork struct {
	batches *BatchRepository
	open    bool

	// Committed reports whether the most recent scope committed
	Committed bool
}

// NewUnitOfWork creates a fake unit of work over the given in-memory repository
func NewUnitOfWork(batches *BatchRepository) *UnitOfWork {
	return &UnitOfWork{batches: batches}
}

// Begin opens the in-memory scope
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.open {
		return errs.NewScopeMisuseError("begin", "a scope is already open on this instance")
	}
	u.open = true
	u.Committed = false
	return nil
}

// Commit marks the scope as committed; there is no I/O to perform
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.open {
		return errs.NewScopeMisuseError("commit", "no open scope")
	}
	u.Committed = true
	return nil
}

// Release closes the scope. Rollback is a no-op here since the repository
// already mutated in-memory state directly.
func (u *UnitOfWork) Release(ctx context.Context) error {
	u.open = false
	return nil
}

// Batches returns the in-memory batch repository while the scope is open
func (u *UnitOfWork) Batches() (persistence.BatchRepository, error) {
	if !u.open {
		return nil, errs.NewScopeMisuseError("batches", "scope has not been acquired")
	}
	return u.batches, nil
}

// UnitOfWorkFactory hands out the same fake instance every time so tests can
// hold on to it and observe the Committed flag after the use case returns
type UnitOfWorkFactory struct {
	uow *UnitOfWork
}

// NewUnitOfWorkFactory creates a factory around a single fake unit of work
func NewUnitOfWorkFactory(uow *UnitOfWork) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{uow: uow}
}

// New returns the shared fake instance
func (f *UnitOfWorkFactory) New() persistence.UnitOfWork {
	return f.uow
}
